package bcra

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

const (
	metadataPath = "Metodologia"
	seriesPath   = "Monetarias"
)

// fetcher is the part of Client used by the repository.
type fetcher interface {
	Fetch(ctx context.Context, path string, params url.Values) (Envelope, error)
	Close() error
}

// StatsRepositoryImpl implementa o StatsRepository sobre a API de estatísticas do BCRA.
type StatsRepositoryImpl struct {
	client fetcher
	warn   func(format string, a ...interface{})
}

// NewStatsRepository cria uma nova implementação do StatsRepository.
func NewStatsRepository(client *Client) repository.StatsRepository {
	return &StatsRepositoryImpl{
		client: client,
		warn: func(format string, a ...interface{}) {
			pterm.Warning.Printfln(format, a...)
		},
	}
}

// NewStatsRepositoryFromArgs builds a client from the CLI arguments and wraps it in a repository.
func NewStatsRepositoryFromArgs(args *types.CLIArgs) (repository.StatsRepository, error) {
	cfg := DefaultConfig()
	if args.BaseURL != "" {
		cfg.BaseURL = args.BaseURL
	}
	if args.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}
	if args.UserAgent != "" {
		cfg.UserAgent = args.UserAgent
	}
	cfg.InsecureSkipVerify = args.InsecureSkipVerify

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewStatsRepository(client), nil
}

// ListVariables lista as variáveis publicadas, ordenadas por identificador.
func (r *StatsRepositoryImpl) ListVariables(ctx context.Context) ([]entity.Variable, error) {
	env, err := r.client.Fetch(ctx, metadataPath, nil)
	if err != nil {
		return nil, err
	}

	records := r.normalize(env, "variable list")
	variables := make([]entity.Variable, 0, len(records))
	for _, rec := range records {
		v, ok := recordToVariable(rec)
		if !ok {
			continue
		}
		variables = append(variables, v)
	}

	sort.SliceStable(variables, func(i, j int) bool {
		return variables[i].ID < variables[j].ID
	})
	return variables, nil
}

// GetVariable returns the metadata of a single variable.
func (r *StatsRepositoryImpl) GetVariable(ctx context.Context, id int) (entity.Variable, error) {
	env, err := r.client.Fetch(ctx, fmt.Sprintf("%s/%d", metadataPath, id), nil)
	if err != nil {
		return entity.Variable{}, err
	}

	// Algumas respostas trazem os metadados no próprio objeto results.
	if results, ok := env[resultsKey].(map[string]any); ok {
		if _, hasDetail := results[detailKey]; !hasDetail {
			if v, ok := recordToVariable(results); ok && v.ID == id {
				return v, nil
			}
		}
	}

	for _, rec := range r.normalize(env, fmt.Sprintf("variable %d", id)) {
		if v, ok := recordToVariable(rec); ok && v.ID == id {
			return v, nil
		}
	}
	return entity.Variable{}, fmt.Errorf("variable %d not found in metadata response", id)
}

// GetSeries busca as observações de uma variável dentro da janela.
func (r *StatsRepositoryImpl) GetSeries(ctx context.Context, id int, window entity.QueryWindow) (entity.TimeSeries, error) {
	env, err := r.client.Fetch(ctx, fmt.Sprintf("%s/%d", seriesPath, id), window.Params())
	if err != nil {
		return entity.EmptySeries(id), err
	}
	return BuildSeries(id, r.normalize(env, fmt.Sprintf("variable %d", id)))
}

func (r *StatsRepositoryImpl) Close() error {
	return r.client.Close()
}

func (r *StatsRepositoryImpl) normalize(env Envelope, subject string) []Record {
	shape := Classify(env)
	if err := shape.Err(); err != nil {
		r.warn("%s: %v (treated as empty)", subject, err)
	}
	return shape.Records
}

func recordToVariable(rec Record) (entity.Variable, bool) {
	id, ok := getInt(rec, "idVariable")
	if !ok {
		return entity.Variable{}, false
	}
	v := entity.Variable{ID: id}
	v.ShortName, _ = getString(rec, "nombreCorto")
	v.Description, _ = getString(rec, "descripcion")
	v.Category, _ = getString(rec, "categoria")
	v.Periodicity, _ = getString(rec, "periodicidad")
	v.Unit, _ = getString(rec, "unidadExpresion")
	return v, true
}
