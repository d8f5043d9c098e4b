// Package db persists ingestion runs through sqlx, backed by either a SQLite
// file or Postgres depending on the configured DSN.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"lawatlas/domain/canonical"
	"lawatlas/domain/core"
	"lawatlas/internal/errors"
	"lawatlas/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS ingestion_runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	dataset     TEXT NOT NULL,
	diagnostics TEXT NOT NULL
)`

// runStore implements ports.DatasetRepository. Runs are stored whole as JSON:
// the dataset is a value produced once per run and read back as a unit, so
// row-per-state normalization buys nothing here.
type runStore struct {
	db *sqlx.DB
}

// Open connects to the store selected by the DSN: postgres:// URLs use
// Postgres, anything else is treated as a SQLite file path.
func Open(dsn string) (ports.DatasetRepository, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to connect to %s store", driver), err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.DatabaseError("failed to create schema", err)
	}
	return &runStore{db: conn}, nil
}

// SaveRun stores a dataset and its diagnostics under the run ID.
func (s *runStore) SaveRun(ctx context.Context, dataset *canonical.Dataset, diag *canonical.Diagnostics) error {
	datasetJSON, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	diagJSON, err := json.Marshal(diag)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	query := s.db.Rebind(`INSERT INTO ingestion_runs (id, created_at, dataset, diagnostics) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		dataset.RunID.String(),
		dataset.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(datasetJSON),
		string(diagJSON),
	); err != nil {
		return errors.Wrap(err, "failed to save run")
	}
	return nil
}

// LoadRun retrieves a stored run.
func (s *runStore) LoadRun(ctx context.Context, runID core.RunID) (*canonical.Dataset, *canonical.Diagnostics, error) {
	query := s.db.Rebind(`SELECT dataset, diagnostics FROM ingestion_runs WHERE id = ?`)
	return s.scanRun(s.db.QueryRowContext(ctx, query, runID.String()), runID)
}

// LatestRun retrieves the most recently stored run.
func (s *runStore) LatestRun(ctx context.Context) (*canonical.Dataset, *canonical.Diagnostics, error) {
	query := `SELECT dataset, diagnostics FROM ingestion_runs ORDER BY created_at DESC LIMIT 1`
	return s.scanRun(s.db.QueryRowContext(ctx, query), "")
}

// ListRuns returns stored run IDs, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]core.RunID, error) {
	if limit < 1 {
		limit = 20
	}
	query := s.db.Rebind(`SELECT id FROM ingestion_runs ORDER BY created_at DESC LIMIT ?`)

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, query, limit); err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	out := make([]core.RunID, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.RunID(id))
	}
	return out, nil
}

func (s *runStore) Close() error {
	return s.db.Close()
}

func (s *runStore) scanRun(row *sql.Row, runID core.RunID) (*canonical.Dataset, *canonical.Diagnostics, error) {
	var datasetJSON, diagJSON string
	if err := row.Scan(&datasetJSON, &diagJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, errors.NotFound(fmt.Sprintf("run %s", runID))
		}
		return nil, nil, errors.Wrap(err, "failed to load run")
	}

	var dataset canonical.Dataset
	if err := json.Unmarshal([]byte(datasetJSON), &dataset); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	var diag canonical.Diagnostics
	if err := json.Unmarshal([]byte(diagJSON), &diag); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
	}
	return &dataset, &diag, nil
}
