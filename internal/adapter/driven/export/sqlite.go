package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS variables (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		file TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS observations (
		variable_id INTEGER NOT NULL,
		fecha TEXT NOT NULL,
		valor TEXT,
		valor_num REAL,
		ingested_at TIMESTAMP NOT NULL,
		PRIMARY KEY (variable_id, fecha)
	);`,
}

// ExportToSQLite grava as séries numa base SQLite. Reexportar a mesma data substitui o valor.
func (r *ExportRepositoryImpl) ExportToSQLite(ctx context.Context, data []entity.IndicatorSeries, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "db")
	if err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite", outputFilename)
	if err != nil {
		return "", fmt.Errorf("error opening SQLite database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return "", fmt.Errorf("error creating SQLite schema: %w", err)
		}
	}

	if err := upsertSeries(ctx, db, data, r.now().UTC()); err != nil {
		return "", fmt.Errorf("error writing SQLite data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func upsertSeries(ctx context.Context, db *sql.DB, data []entity.IndicatorSeries, now time.Time) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	varStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO variables (id, name, unit, file) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			unit = excluded.unit,
			file = excluded.file
	`)
	if err != nil {
		return err
	}
	defer varStmt.Close()

	obsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (variable_id, fecha, valor, valor_num, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(variable_id, fecha) DO UPDATE SET
			valor = excluded.valor,
			valor_num = excluded.valor_num,
			ingested_at = excluded.ingested_at
	`)
	if err != nil {
		return err
	}
	defer obsStmt.Close()

	for _, item := range data {
		ind := item.Indicator
		if _, err = varStmt.ExecContext(ctx, ind.ID, ind.Name, ind.Unit, ind.File); err != nil {
			return err
		}
		for _, obs := range item.Series.Observations {
			var valor, valorNum any
			if obs.Value.Valid {
				valor = obs.Value.Decimal.String()
				valorNum = obs.Value.Decimal.InexactFloat64()
			}
			if _, err = obsStmt.ExecContext(ctx, ind.ID, obs.Date.String(), valor, valorNum, now); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
