package entity

import "time"

// ReportSeries é a entrada consumida pelo gerador de relatórios para uma variável.
type ReportSeries struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Unit   string     `json:"unit"`
	File   string     `json:"file"`
	Dates  []string   `json:"dates"`
	Values []*float64 `json:"values"`
	Latest *float64   `json:"latest"`
}

// Report is the finalized report input, keyed by variable identifier.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Window      QueryWindow          `json:"window"`
	Order       []int                `json:"order"`
	Series      map[int]ReportSeries `json:"series"`
}
