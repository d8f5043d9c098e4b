package ports

import (
	"context"

	"lawatlas/domain/ingestion"
)

// WorkbookSource lists and reads source spreadsheets. Implementations must
// return workbooks immutable once read; the pipeline never mutates them.
type WorkbookSource interface {
	// List returns the identifiers of every available workbook, sorted
	// ascending so merge order is reproducible.
	List(ctx context.Context) ([]string, error)

	// Read loads one workbook: header row plus raw data rows. Structural
	// failures (unreadable file, no header row) are returned as errors and
	// reject that single workbook only.
	Read(ctx context.Context, name string) (ingestion.SourceWorkbook, error)
}
