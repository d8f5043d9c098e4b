package ports

import (
	"context"

	"lawatlas/domain/canonical"
	"lawatlas/domain/core"
)

// DatasetRepository persists completed ingestion runs so front ends can
// consume the canonical dataset without re-running ingestion.
type DatasetRepository interface {
	// SaveRun stores a dataset and its diagnostics under the run ID.
	SaveRun(ctx context.Context, dataset *canonical.Dataset, diag *canonical.Diagnostics) error

	// LoadRun retrieves a stored run.
	LoadRun(ctx context.Context, runID core.RunID) (*canonical.Dataset, *canonical.Diagnostics, error)

	// LatestRun retrieves the most recently stored run.
	LatestRun(ctx context.Context) (*canonical.Dataset, *canonical.Diagnostics, error)

	// ListRuns returns stored run IDs, newest first.
	ListRuns(ctx context.Context, limit int) ([]core.RunID, error)

	Close() error
}
