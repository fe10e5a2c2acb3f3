package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"gonum.org/v1/plot/vg"
)

const pdfLastRows = 15

type seriesStats struct {
	count     int
	nulls     int
	min, max  decimal.Decimal
	first     decimal.NullDecimal
	last      decimal.NullDecimal
	hasValues bool
}

func computeStats(s entity.TimeSeries) seriesStats {
	var st seriesStats
	st.count = s.Len()
	for _, obs := range s.Observations {
		if !obs.Value.Valid {
			st.nulls++
			continue
		}
		v := obs.Value.Decimal
		if !st.hasValues {
			st.min, st.max, st.first = v, v, obs.Value
			st.hasValues = true
		}
		if v.LessThan(st.min) {
			st.min = v
		}
		if v.GreaterThan(st.max) {
			st.max = v
		}
		st.last = obs.Value
	}
	return st
}

// change returns the percent change between the first and last values, if defined.
func (st seriesStats) change() (decimal.Decimal, bool) {
	if !st.first.Valid || !st.last.Valid || st.first.Decimal.IsZero() {
		return decimal.Decimal{}, false
	}
	diff := st.last.Decimal.Sub(st.first.Decimal)
	return diff.Div(st.first.Decimal.Abs()).Mul(decimal.NewFromInt(100)), true
}

// ExportToPDF gera uma página por variável com resumo, gráfico e últimas observações.
func (r *ExportRepositoryImpl) ExportToPDF(data []entity.IndicatorSeries, window entity.QueryWindow, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	drawSection := func(title string, content string) {
		if content == "" {
			return
		}
		drawTitle(title)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(6)
	}

	for i, item := range data {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", pdfTitle(item.Indicator.Name))), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		subtitle := fmt.Sprintf("  Variable %d | %s | %s", item.Indicator.ID, item.Indicator.Unit, window)
		pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")
		pdf.Ln(8)

		st := computeStats(item.Series)
		summary := fmt.Sprintf("Observations: %d (%d without value)", st.count, st.nulls)
		if st.hasValues {
			summary += fmt.Sprintf("\nLatest: %s\nMinimum: %s\nMaximum: %s",
				nullString(item.Series.Latest()), st.min.String(), st.max.String())
			if pct, ok := st.change(); ok {
				summary += fmt.Sprintf("\nChange over window: %s%%", pct.StringFixed(2))
			}
		}
		drawSection("Summary", summary)

		chart, err := renderChart(item, i, 18*vg.Centimeter, 8*vg.Centimeter)
		if err != nil {
			return "", err
		}
		if chart != nil {
			name := fmt.Sprintf("chart-%d", item.Indicator.ID)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(chart))
			pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 180, 80, true, opts, 0, "")
			pdf.Ln(4)
		}

		drawTitle("Latest observations")
		colWidth := 60.0
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(colWidth, 7, "fecha", "B", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, 7, "valor", "B", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)

		start := item.Series.Len() - pdfLastRows
		if start < 0 {
			start = 0
		}
		for _, obs := range item.Series.Observations[start:] {
			pdf.CellFormat(colWidth, 6, obs.Date.String(), "", 0, "L", false, 0, "")
			pdf.CellFormat(colWidth, 6, nullString(obs.Value), "", 1, "R", false, 0, "")
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by BCRA Dashboard (Go) | %s", r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// pdfTitle limits a page title to 80 runes.
func pdfTitle(name string) string {
	if utf8.RuneCountInString(name) > 80 {
		return truncateRunes(name, 77) + "..."
	}
	return name
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return "N/D"
	}
	return v.Decimal.String()
}
