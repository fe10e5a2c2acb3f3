package entity

import "sort"

// SeriesResult is the outcome of fetching one variable.
// A failed fetch carries an empty series and the error.
type SeriesResult struct {
	Series TimeSeries
	Err    error
}

func (r SeriesResult) OK() bool {
	return r.Err == nil
}

// ResultMap tem exatamente uma entrada por identificador solicitado.
type ResultMap map[int]SeriesResult

// Succeeded returns the identifiers fetched without error, sorted.
func (m ResultMap) Succeeded() []int {
	return m.filter(true)
}

// Failed returns the identifiers whose fetch failed, sorted.
func (m ResultMap) Failed() []int {
	return m.filter(false)
}

func (m ResultMap) filter(ok bool) []int {
	ids := []int{}
	for id, res := range m {
		if res.OK() == ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
