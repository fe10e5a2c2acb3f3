package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{"fecha", "valor"}

// ExportSeriesToCSV grava a série com as colunas fecha e valor, em ordem crescente de data.
// Valores ausentes ficam vazios.
func (r *ExportRepositoryImpl) ExportSeriesToCSV(series entity.TimeSeries, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, obs := range series.Observations {
		valor := ""
		if obs.Value.Valid {
			valor = obs.Value.Decimal.String()
		}
		if err := writer.Write([]string{obs.Date.String(), valor}); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ReadSeriesCSV lê de volta um arquivo gravado por ExportSeriesToCSV.
func (r *ExportRepositoryImpl) ReadSeriesCSV(path string, variableID int) (entity.TimeSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return entity.TimeSeries{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return entity.TimeSeries{}, fmt.Errorf("error reading CSV header: %w", err)
	}
	if strings.TrimPrefix(header[0], "\ufeff") != csvHeader[0] || header[1] != csvHeader[1] {
		return entity.TimeSeries{}, fmt.Errorf("unexpected CSV header %v", header)
	}

	series := entity.EmptySeries(variableID)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.TimeSeries{}, fmt.Errorf("error reading CSV line %d: %w", line, err)
		}

		date, err := civil.ParseDate(row[0])
		if err != nil {
			return entity.TimeSeries{}, fmt.Errorf("line %d: invalid fecha %q: %w", line, row[0], err)
		}
		obs := entity.Observation{Date: date}
		if row[1] != "" {
			d, err := decimal.NewFromString(row[1])
			if err != nil {
				return entity.TimeSeries{}, fmt.Errorf("line %d: invalid valor %q: %w", line, row[1], err)
			}
			obs.Value = decimal.NewNullDecimal(d)
		}
		series.Observations = append(series.Observations, obs)
	}
	return series, nil
}
