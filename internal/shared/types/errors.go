package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoVariables           = errors.New("no variables requested. Configure variables or pass --variables")
	ErrUnsupportedReportType = errors.New("unsupported report type")
)

// TransportError reports a failed request: network failure, non-2xx status or an unparsable body.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	URL        string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("bcra: request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("bcra: request to %s failed: %s", e.URL, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ShapeError descreve um envelope JSON que não corresponde a nenhum formato conhecido.
// Nunca é propagado como falha: o normalizador devolve uma lista vazia.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "bcra: unrecognized response shape: " + e.Reason
}

// ParseError reports a record whose fecha or valor could not be converted.
type ParseError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bcra: record %d: invalid %s %q: %v", e.Index, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("bcra: record %d: invalid %s %q", e.Index, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
