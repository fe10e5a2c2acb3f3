package entity

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Observation é um par (data, valor). Um valor ausente tem Valid == false.
type Observation struct {
	Date  civil.Date          `json:"date"`
	Value decimal.NullDecimal `json:"value"`
}

// TimeSeries holds the observations of one variable in ascending date order.
type TimeSeries struct {
	VariableID   int           `json:"variable_id"`
	Observations []Observation `json:"observations"`
}

// EmptySeries returns a series with no observations for the given variable.
func EmptySeries(variableID int) TimeSeries {
	return TimeSeries{VariableID: variableID, Observations: []Observation{}}
}

func (s TimeSeries) Len() int {
	return len(s.Observations)
}

func (s TimeSeries) IsEmpty() bool {
	return len(s.Observations) == 0
}

// Latest retorna o valor da última observação. Séries vazias retornam um valor ausente.
func (s TimeSeries) Latest() decimal.NullDecimal {
	if s.IsEmpty() {
		return decimal.NullDecimal{}
	}
	return s.Observations[len(s.Observations)-1].Value
}

// Dates returns the observation dates as ISO strings.
func (s TimeSeries) Dates() []string {
	dates := make([]string, len(s.Observations))
	for i, obs := range s.Observations {
		dates[i] = obs.Date.String()
	}
	return dates
}

// Floats returns the observation values, nil where the value is absent.
func (s TimeSeries) Floats() []*float64 {
	values := make([]*float64, len(s.Observations))
	for i, obs := range s.Observations {
		values[i] = NullDecimalToFloat(obs.Value)
	}
	return values
}

// Deduplicate retorna uma nova série com uma única observação por data.
// Quando uma data se repete, vence a última recebida. A série já está ordenada,
// então datas repetidas são adjacentes.
func (s TimeSeries) Deduplicate() TimeSeries {
	out := TimeSeries{VariableID: s.VariableID, Observations: make([]Observation, 0, len(s.Observations))}
	for _, obs := range s.Observations {
		if n := len(out.Observations); n > 0 && out.Observations[n-1].Date == obs.Date {
			out.Observations[n-1] = obs
			continue
		}
		out.Observations = append(out.Observations, obs)
	}
	return out
}

// NullDecimalToFloat converts an optional decimal to an optional float.
func NullDecimalToFloat(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Decimal.InexactFloat64()
	return &f
}

// IndicatorSeries pairs a configured indicator with its fetched series.
type IndicatorSeries struct {
	Indicator Indicator
	Series    TimeSeries
}
