package repository

import (
	"context"

	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

// PublishRepository uploads exported files to remote storage.
type PublishRepository interface {
	Publish(ctx context.Context, target types.PublishConfig, paths []string) ([]string, error)
}
