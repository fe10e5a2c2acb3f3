package repository

import (
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// LoadEnvironment reads BCRA_* variables, loading envFile first when present.
	LoadEnvironment(envFile string) (*types.Config, error)
}
