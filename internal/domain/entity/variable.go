package entity

// Variable descreve uma variável publicada pelo BCRA (endpoint Metodologia).
type Variable struct {
	ID          int    `json:"id"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Periodicity string `json:"periodicity,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// Indicator is a configured variable with the labels used by reports and exports.
type Indicator struct {
	ID   int    `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Unit string `json:"unit" yaml:"unit" toml:"unit"`
	File string `json:"file" yaml:"file" toml:"file"`
}

// DefaultIndicators são as variáveis exibidas pelo dashboard quando nenhuma é configurada.
func DefaultIndicators() []Indicator {
	return []Indicator{
		{ID: 1, Name: "Reservas Internacionales", Unit: "USD millones", File: "reservas"},
		{ID: 4, Name: "Tipo de Cambio (B 9791)", Unit: "ARS/USD", File: "tipo_cambio_oficial"},
		{ID: 5, Name: "TC Referencia (A 3500)", Unit: "ARS/USD", File: "tipo_cambio_referencia"},
		{ID: 12, Name: "Tasa Plazo Fijo", Unit: "% TNA", File: "tasa_plazo_fijo"},
		{ID: 15, Name: "Base Monetaria", Unit: "millones ARS", File: "base_monetaria"},
	}
}

// IndicatorIDs returns the identifiers in configuration order.
func IndicatorIDs(indicators []Indicator) []int {
	ids := make([]int, 0, len(indicators))
	for _, ind := range indicators {
		ids = append(ids, ind.ID)
	}
	return ids
}
