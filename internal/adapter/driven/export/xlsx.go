package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "Resumen"
	maxSheetNameRunes = 31
)

var summaryHeader = []string{"ID", "Variable", "Unidad", "Observaciones", "Última fecha", "Último valor"}

// ExportToXLSX grava uma planilha de resumo e uma aba fecha/valor por variável.
func (r *ExportRepositoryImpl) ExportToXLSX(data []entity.IndicatorSeries, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("error creating summary sheet: %w", err)
	}
	for i, header := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, header)
	}
	f.SetColWidth(summarySheet, "A", "A", 8)
	f.SetColWidth(summarySheet, "B", "F", 22)

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for i, item := range data {
		row := i + 2
		s := item.Series
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), item.Indicator.ID)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), item.Indicator.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), item.Indicator.Unit)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), s.Len())
		if !s.IsEmpty() {
			f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), s.Observations[s.Len()-1].Date.String())
		}
		if latest := entity.NullDecimalToFloat(s.Latest()); latest != nil {
			f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), *latest)
		}

		sheet := uniqueSheetName(sheetName(item.Indicator), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("error creating sheet %q: %w", sheet, err)
		}
		f.SetCellValue(sheet, "A1", csvHeader[0])
		f.SetCellValue(sheet, "B1", csvHeader[1])
		f.SetColWidth(sheet, "A", "B", 16)

		for j, obs := range s.Observations {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", j+2), obs.Date.String())
			if v := entity.NullDecimalToFloat(obs.Value); v != nil {
				f.SetCellValue(sheet, fmt.Sprintf("B%d", j+2), *v)
			}
		}
	}

	if err := f.SaveAs(outputFilename); err != nil {
		return "", fmt.Errorf("error writing XLSX file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// sheetName derives a valid worksheet name from the indicator file name.
func sheetName(ind entity.Indicator) string {
	name := ind.File
	if name == "" {
		name = fmt.Sprintf("variable_%d", ind.ID)
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	return truncateRunes(strings.Trim(name, "'"), maxSheetNameRunes)
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate = truncateRunes(name, maxSheetNameRunes-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
