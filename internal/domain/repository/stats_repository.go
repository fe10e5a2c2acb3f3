package repository

import (
	"context"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

// StatsRepository defines the interface for the BCRA statistics API.
type StatsRepository interface {
	// Metadata
	ListVariables(ctx context.Context) ([]entity.Variable, error)
	GetVariable(ctx context.Context, id int) (entity.Variable, error)

	// Observations
	GetSeries(ctx context.Context, id int, window entity.QueryWindow) (entity.TimeSeries, error)

	// Close releases the underlying HTTP connections.
	Close() error
}

// StatsRepositoryFactory opens a StatsRepository for a single run.
type StatsRepositoryFactory func(args *types.CLIArgs) (StatsRepository, error)
