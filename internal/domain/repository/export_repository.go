package repository

import (
	"context"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	// Tabular export, one file per variable
	ExportSeriesToCSV(series entity.TimeSeries, filename, outputDir string) (string, error)
	ReadSeriesCSV(path string, variableID int) (entity.TimeSeries, error)

	ExportToJSON(data []entity.IndicatorSeries, filename, outputDir string) (string, error)
	ExportToXLSX(data []entity.IndicatorSeries, filename, outputDir string) (string, error)
	ExportToPDF(data []entity.IndicatorSeries, window entity.QueryWindow, filename, outputDir string) (string, error)
	ExportToSQLite(ctx context.Context, data []entity.IndicatorSeries, filename, outputDir string) (string, error)

	// Report input
	ExportReportInput(report entity.Report, filename, outputDir string) (string, error)
}

// ExportRepositoryFactory creates an ExportRepository; timestamp adds a run suffix to file names.
type ExportRepositoryFactory func(timestamp bool) ExportRepository
