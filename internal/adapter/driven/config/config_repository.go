package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const defaultEnvFile = ".env"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	getenv func(string) string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{getenv: os.Getenv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validateVariables(config.Variables); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	return &config, nil
}

// LoadEnvironment lê as variáveis BCRA_*. Um envFile vazio usa ".env" se existir.
func (r *ConfigRepositoryImpl) LoadEnvironment(envFile string) (*types.Config, error) {
	if envFile == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			envFile = defaultEnvFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error accessing %s: %w", defaultEnvFile, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	var config types.Config
	var err error

	config.BaseURL = r.getenv("BCRA_BASE_URL")
	config.UserAgent = r.getenv("BCRA_USER_AGENT")
	config.Dir = r.getenv("BCRA_REPORT_DIR")
	config.DataDir = r.getenv("BCRA_DATA_DIR")
	config.ReportName = r.getenv("BCRA_REPORT_NAME")
	config.Publish = types.PublishConfig{
		Bucket:  r.getenv("BCRA_S3_BUCKET"),
		Prefix:  r.getenv("BCRA_S3_PREFIX"),
		Region:  r.getenv("BCRA_S3_REGION"),
		Profile: r.getenv("BCRA_AWS_PROFILE"),
	}
	if v := r.getenv("BCRA_REPORT_TYPE"); v != "" {
		config.ReportType = splitList(v)
	}

	if config.InsecureSkipVerify, err = r.envBool("BCRA_INSECURE_SKIP_VERIFY"); err != nil {
		return nil, err
	}
	if config.DedupeDates, err = r.envBool("BCRA_DEDUPE_DATES"); err != nil {
		return nil, err
	}
	if config.TimeoutSeconds, err = r.envInt("BCRA_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	}
	if config.Days, err = r.envInt("BCRA_DAYS"); err != nil {
		return nil, err
	}
	if config.Concurrency, err = r.envInt("BCRA_CONCURRENCY"); err != nil {
		return nil, err
	}

	if v := r.getenv("BCRA_VARIABLES"); v != "" {
		for _, item := range splitList(v) {
			id, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("invalid BCRA_VARIABLES entry %q: %w", item, err)
			}
			config.Variables = append(config.Variables, entity.Indicator{ID: id})
		}
		if err := validateVariables(config.Variables); err != nil {
			return nil, fmt.Errorf("invalid BCRA_VARIABLES: %w", err)
		}
	}

	return &config, nil
}

func (r *ConfigRepositoryImpl) envInt(key string) (int, error) {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func (r *ConfigRepositoryImpl) envBool(key string) (*bool, error) {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return &b, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validateVariables(variables []entity.Indicator) error {
	seen := map[int]bool{}
	for _, v := range variables {
		if v.ID <= 0 {
			return fmt.Errorf("variable id must be positive, got %d", v.ID)
		}
		if seen[v.ID] {
			return fmt.Errorf("variable %d is configured twice", v.ID)
		}
		seen[v.ID] = true
	}
	return nil
}
