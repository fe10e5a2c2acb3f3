package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	timestamp bool
	now       func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
// Com timestamp, cada arquivo recebe o sufixo _YYYYMMDD_HHMMSS.
func NewExportRepository(timestamp bool) repository.ExportRepository {
	return &ExportRepositoryImpl{timestamp: timestamp, now: time.Now}
}

type jsonObservation struct {
	Fecha string       `json:"fecha"`
	Valor *json.Number `json:"valor"`
}

type jsonSeries struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Unit         string            `json:"unit"`
	File         string            `json:"file"`
	Observations []jsonObservation `json:"observations"`
}

func (r *ExportRepositoryImpl) ExportToJSON(data []entity.IndicatorSeries, filename, outputDir string) (string, error) {
	out := make([]jsonSeries, 0, len(data))
	for _, item := range data {
		s := jsonSeries{
			ID:           item.Indicator.ID,
			Name:         item.Indicator.Name,
			Unit:         item.Indicator.Unit,
			File:         item.Indicator.File,
			Observations: make([]jsonObservation, 0, item.Series.Len()),
		}
		for _, obs := range item.Series.Observations {
			o := jsonObservation{Fecha: obs.Date.String()}
			if obs.Value.Valid {
				n := json.Number(obs.Value.Decimal.String())
				o.Valor = &n
			}
			s.Observations = append(s.Observations, o)
		}
		out = append(out, s)
	}
	return r.writeJSON(out, filename, outputDir)
}

// ExportReportInput grava a entrada do gerador de relatórios.
func (r *ExportRepositoryImpl) ExportReportInput(report entity.Report, filename, outputDir string) (string, error) {
	return r.writeJSON(report, filename, outputDir)
}

func (r *ExportRepositoryImpl) writeJSON(data any, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename monta o caminho do arquivo e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("empty file name for %s export", ext)
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	filename := fmt.Sprintf("%s.%s", base, ext)
	if r.timestamp {
		filename = fmt.Sprintf("%s_%s.%s", base, r.now().Format("20060102_150405"), ext)
	}
	return filepath.Join(dir, filename), nil
}
