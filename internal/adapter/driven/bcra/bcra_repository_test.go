package bcra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/google/go-cmp/cmp"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *StatsRepositoryImpl {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo := NewStatsRepository(newTestClient(t, server.URL, false)).(*StatsRepositoryImpl)
	return repo
}

// recordWarnings replaces the repository's warning output and returns the collected lines.
func recordWarnings(repo *StatsRepositoryImpl) *[]string {
	var warnings []string
	repo.warn = func(format string, a ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, a...))
	}
	return &warnings
}

func TestStatsRepository_GetSeries(t *testing.T) {
	var gotQuery string
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Monetarias/4" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"status":200,"results":[{"idVariable":4,"detalle":[
			{"fecha":"2024-03-02","valor":850.5},
			{"fecha":"2024-03-01","valor":849.75}
		]}]}`))
	})

	window := entity.QueryWindow{From: civil.Date{Year: 2024, Month: time.March, Day: 1}, To: civil.Date{Year: 2024, Month: time.March, Day: 31}}
	series, err := repo.GetSeries(context.Background(), 4, window)
	if err != nil {
		t.Fatalf("GetSeries() error = %v", err)
	}

	if gotQuery != "desde=2024-03-01&hasta=2024-03-31" {
		t.Errorf("query = %q", gotQuery)
	}
	if series.VariableID != 4 {
		t.Errorf("VariableID = %d, want 4", series.VariableID)
	}
	want := []string{"2024-03-01=849.75", "2024-03-02=850.5"}
	if diff := cmp.Diff(want, seriesPairs(series)); diff != "" {
		t.Errorf("GetSeries() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsRepository_GetSeriesUnknownShapeIsEmpty(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":"unexpected"}`))
	})
	warnings := recordWarnings(repo)

	series, err := repo.GetSeries(context.Background(), 1, entity.QueryWindow{})
	if err != nil {
		t.Fatalf("GetSeries() error = %v", err)
	}
	if !series.IsEmpty() {
		t.Errorf("GetSeries() len = %d, want 0", series.Len())
	}
	if len(*warnings) != 1 || !strings.Contains((*warnings)[0], "unrecognized response shape") {
		t.Errorf("warnings = %q, want one shape warning", *warnings)
	}
}

func TestStatsRepository_GetSeriesTransportError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	series, err := repo.GetSeries(context.Background(), 1, entity.QueryWindow{})
	var transportErr *types.TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("GetSeries() error = %v, want TransportError with status 500", err)
	}
	if !series.IsEmpty() {
		t.Errorf("GetSeries() len = %d, want 0", series.Len())
	}
}

func TestStatsRepository_ListVariables(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Metodologia" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"results":[
			{"idVariable":5,"nombreCorto":"TC Referencia","descripcion":"Tipo de cambio de referencia","unidadExpresion":"ARS/USD"},
			{"descripcion":"sin identificador"},
			{"idVariable":1,"nombreCorto":"Reservas","descripcion":"Reservas internacionales","periodicidad":"D","categoria":"Principales"}
		]}`))
	})

	got, err := repo.ListVariables(context.Background())
	if err != nil {
		t.Fatalf("ListVariables() error = %v", err)
	}

	want := []entity.Variable{
		{ID: 1, ShortName: "Reservas", Description: "Reservas internacionales", Category: "Principales", Periodicity: "D"},
		{ID: 5, ShortName: "TC Referencia", Description: "Tipo de cambio de referencia", Unit: "ARS/USD"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListVariables() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsRepository_GetVariable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"list", `{"results":[{"idVariable":12,"nombreCorto":"Plazo fijo","descripcion":"Tasa de plazos fijos"}]}`},
		{"object", `{"results":{"idVariable":12,"nombreCorto":"Plazo fijo","descripcion":"Tasa de plazos fijos"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			warnings := recordWarnings(repo)

			got, err := repo.GetVariable(context.Background(), 12)
			if err != nil {
				t.Fatalf("GetVariable() error = %v", err)
			}
			if len(*warnings) != 0 {
				t.Errorf("GetVariable() warned %q, want no warnings", *warnings)
			}
			want := entity.Variable{ID: 12, ShortName: "Plazo fijo", Description: "Tasa de plazos fijos"}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("GetVariable() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatsRepository_GetVariableNotFound(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	if _, err := repo.GetVariable(context.Background(), 99); err == nil {
		t.Error("GetVariable() error = nil, want not found")
	}
}
