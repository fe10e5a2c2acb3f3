package bcra

import (
	"fmt"

	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

const (
	resultsKey = "results"
	detailKey  = "detalle"
)

// Record is one flat row of a normalized response.
type Record = map[string]any

// ShapeKind identifies which envelope layout a response used.
type ShapeKind int

const (
	ShapeAbsent ShapeKind = iota
	ShapeDetailObject
	ShapeDetailList
	ShapeFlatList
	ShapeUnknown
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeAbsent:
		return "absent"
	case ShapeDetailObject:
		return "detail-object"
	case ShapeDetailList:
		return "detail-list"
	case ShapeFlatList:
		return "flat-list"
	default:
		return "unknown"
	}
}

// Shape é o resultado da classificação de um envelope.
type Shape struct {
	Kind    ShapeKind
	Records []Record
	Reason  string
}

// Err returns a *types.ShapeError for unrecognized envelopes and nil otherwise.
func (s Shape) Err() error {
	if s.Kind != ShapeUnknown {
		return nil
	}
	return &types.ShapeError{Reason: s.Reason}
}

// Classify inspects the results field of env. The checks run in a fixed order:
// missing results, a mapping with detalle, a list whose first element has detalle,
// and finally a flat list. Anything else is unknown and yields no records.
func Classify(env Envelope) Shape {
	results, ok := env[resultsKey]
	if !ok {
		return Shape{Kind: ShapeAbsent, Records: []Record{}}
	}

	switch typed := results.(type) {
	case map[string]any:
		detail, ok := typed[detailKey]
		if !ok {
			return unknownShape("results is an object without %q", detailKey)
		}
		return detailShape(ShapeDetailObject, detail)
	case []any:
		if len(typed) > 0 {
			if first, ok := typed[0].(map[string]any); ok {
				if detail, ok := first[detailKey]; ok {
					return detailShape(ShapeDetailList, detail)
				}
			}
		}
		return Shape{Kind: ShapeFlatList, Records: toRecords(typed)}
	case nil:
		return unknownShape("results is null")
	default:
		return unknownShape("results has unexpected type %T", results)
	}
}

// Normalize devolve a lista uniforme de registros de env. Nunca falha.
func Normalize(env Envelope) []Record {
	return Classify(env).Records
}

func detailShape(kind ShapeKind, detail any) Shape {
	switch typed := detail.(type) {
	case []any:
		return Shape{Kind: kind, Records: toRecords(typed)}
	case nil:
		return Shape{Kind: kind, Records: []Record{}}
	default:
		return unknownShape("%q has unexpected type %T", detailKey, detail)
	}
}

func unknownShape(format string, args ...any) Shape {
	return Shape{Kind: ShapeUnknown, Records: []Record{}, Reason: fmt.Sprintf(format, args...)}
}

func toRecords(items []any) []Record {
	rows := make([]Record, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
