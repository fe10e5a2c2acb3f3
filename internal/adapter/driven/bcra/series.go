package bcra

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/shopspring/decimal"
)

const (
	dateField  = "fecha"
	valueField = "valor"
)

var errMissingField = errors.New("field is missing")

// BuildSeries converte registros normalizados numa série ordenada por data.
// Um único registro inválido invalida a série inteira com *types.ParseError.
// Datas iguais mantêm a ordem de chegada e não são deduplicadas aqui.
func BuildSeries(variableID int, records []Record) (entity.TimeSeries, error) {
	series := entity.EmptySeries(variableID)
	if len(records) == 0 {
		return series, nil
	}

	observations := make([]entity.Observation, 0, len(records))
	for i, rec := range records {
		date, err := parseDate(rec[dateField])
		if err != nil {
			return entity.EmptySeries(variableID), &types.ParseError{Index: i, Field: dateField, Value: rawString(rec[dateField]), Err: err}
		}
		value, err := parseValue(rec[valueField])
		if err != nil {
			return entity.EmptySeries(variableID), &types.ParseError{Index: i, Field: valueField, Value: rawString(rec[valueField]), Err: err}
		}
		observations = append(observations, entity.Observation{Date: date, Value: value})
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	series.Observations = observations
	return series, nil
}

// parseDate aceita YYYY-MM-DD e timestamps RFC 3339; só a parte da data é usada.
func parseDate(raw any) (civil.Date, error) {
	if raw == nil {
		return civil.Date{}, errMissingField
	}
	text, ok := raw.(string)
	if !ok {
		return civil.Date{}, fmt.Errorf("expected a string, got %T", raw)
	}
	text = strings.TrimSpace(text)

	if d, err := civil.ParseDate(text); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return civil.DateOf(t), nil
	}
	if dt, err := civil.ParseDateTime(text); err == nil {
		return dt.Date, nil
	}
	return civil.Date{}, errors.New("not a calendar date")
}

func parseValue(raw any) (decimal.NullDecimal, error) {
	switch typed := raw.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case json.Number:
		d, err := decimal.NewFromString(typed.String())
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(d), nil
	case float64:
		if math.IsNaN(typed) {
			return decimal.NullDecimal{}, nil
		}
		if math.IsInf(typed, 0) {
			return decimal.NullDecimal{}, errors.New("infinite value")
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(typed)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(typed))), nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(typed)), nil
	case string:
		text := strings.TrimSpace(typed)
		if text == "" || strings.EqualFold(text, "nan") {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

func rawString(raw any) string {
	if raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

// getValue looks a key up exactly first, then case-insensitively.
func getValue(row Record, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return value, ok
		}
	}
	for rowKey, value := range row {
		for _, key := range keys {
			if strings.EqualFold(rowKey, key) {
				return value, true
			}
		}
	}
	return nil, false
}

func getString(row Record, keys ...string) (string, bool) {
	value, ok := getValue(row, keys...)
	if !ok {
		return "", false
	}
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

func getInt(row Record, keys ...string) (int, bool) {
	value, ok := getValue(row, keys...)
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case json.Number:
		n, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
