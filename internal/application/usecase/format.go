package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/D"

// FormatValue formata um valor conforme a unidade da variável:
// montantes em USD ou ARS sem decimais, taxas com uma casa e "%", o resto com duas casas.
func FormatValue(value decimal.NullDecimal, unit string) string {
	if !value.Valid {
		return notAvailable
	}
	switch {
	case strings.Contains(unit, "USD"), strings.Contains(unit, "ARS"):
		return groupThousands(value.Decimal.StringFixed(0))
	case strings.Contains(unit, "%"):
		return value.Decimal.StringFixed(1) + "%"
	default:
		return groupThousands(value.Decimal.StringFixed(2))
	}
}

func groupThousands(number string) string {
	sign := ""
	if strings.HasPrefix(number, "-") {
		sign, number = "-", number[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(number, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return sign + b.String()
}
