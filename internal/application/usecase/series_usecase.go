package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

const defaultConcurrency = 4

// SeriesOptions controla a execução em lote.
type SeriesOptions struct {
	// Concurrency is the number of variables fetched at once. 1 fetches sequentially.
	Concurrency int
	// Dedupe keeps only the last observation received for each date.
	Dedupe bool
}

// SeriesUseCase busca várias séries isolando as falhas de cada variável.
type SeriesUseCase struct {
	statsRepo repository.StatsRepository
	console   types.ConsoleInterface
	options   SeriesOptions
}

// NewSeriesUseCase creates a new series use case.
func NewSeriesUseCase(
	statsRepo repository.StatsRepository,
	console types.ConsoleInterface,
	options SeriesOptions,
) *SeriesUseCase {
	if options.Concurrency <= 0 {
		options.Concurrency = defaultConcurrency
	}
	return &SeriesUseCase{
		statsRepo: statsRepo,
		console:   console,
		options:   options,
	}
}

// FetchMany busca cada identificador de forma independente e devolve exatamente
// uma entrada por identificador distinto. Uma falha deixa a entrada com série vazia
// e o erro registrado; nunca é propagada ao chamador.
func (uc *SeriesUseCase) FetchMany(ctx context.Context, ids []int, window entity.QueryWindow) entity.ResultMap {
	unique := uniqueIDs(ids)
	results := make([]entity.SeriesResult, len(unique))

	var progress types.ProgressHandle
	if len(unique) > 1 {
		progress = uc.console.ProgressWithTotal(len(unique))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, uc.options.Concurrency)

	for i, id := range unique {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = uc.fetchOne(ctx, id, window)
			if progress != nil {
				mu.Lock()
				progress.Increment()
				mu.Unlock()
			}
		}(i, id)
	}
	wg.Wait()

	if progress != nil {
		progress.Stop()
	}

	out := make(entity.ResultMap, len(unique))
	for i, id := range unique {
		res := results[i]
		if res.Err != nil {
			uc.console.LogError("Error fetching variable %d (%s): %v", id, errorKind(res.Err), res.Err)
		}
		out[id] = res
	}
	return out
}

func (uc *SeriesUseCase) fetchOne(ctx context.Context, id int, window entity.QueryWindow) entity.SeriesResult {
	if err := ctx.Err(); err != nil {
		return entity.SeriesResult{Series: entity.EmptySeries(id), Err: err}
	}

	series, err := uc.statsRepo.GetSeries(ctx, id, window)
	if err != nil {
		return entity.SeriesResult{Series: entity.EmptySeries(id), Err: err}
	}
	if uc.options.Dedupe {
		series = series.Deduplicate()
	}
	return entity.SeriesResult{Series: series}
}

// errorKind classifica a falha para a mensagem de log.
func errorKind(err error) string {
	var transportErr *types.TransportError
	var parseErr *types.ParseError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "error"
	}
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
