package usecase

import (
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
)

// BuildReport monta a entrada do gerador de relatórios. Report.Order segue a ordem das variáveis configuradas.
func BuildReport(data []entity.IndicatorSeries, window entity.QueryWindow, now time.Time) entity.Report {
	report := entity.Report{
		GeneratedAt: now.UTC(),
		Window:      window,
		Order:       make([]int, 0, len(data)),
		Series:      make(map[int]entity.ReportSeries, len(data)),
	}

	for _, item := range data {
		if _, exists := report.Series[item.Indicator.ID]; exists {
			continue
		}
		report.Order = append(report.Order, item.Indicator.ID)
		report.Series[item.Indicator.ID] = entity.ReportSeries{
			ID:     item.Indicator.ID,
			Name:   item.Indicator.Name,
			Unit:   item.Indicator.Unit,
			File:   item.Indicator.File,
			Dates:  item.Series.Dates(),
			Values: item.Series.Floats(),
			Latest: entity.NullDecimalToFloat(item.Series.Latest()),
		}
	}
	return report
}
