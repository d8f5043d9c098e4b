package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"lawatlas/domain/canonical"
	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/scoring"
	"lawatlas/internal"
	"lawatlas/ports"
)

// Pipeline runs one full ingestion: discover workbooks, sniff and normalize
// each in parallel, then merge, score and build the canonical dataset in a
// single deterministic phase.
type Pipeline struct {
	source      ports.WorkbookSource
	repository  ports.DatasetRepository // optional; nil disables persistence
	rubric      scoring.Rubric
	parallelism int
	log         *internal.Logger
}

// NewPipeline creates a pipeline. repository may be nil.
func NewPipeline(source ports.WorkbookSource, repository ports.DatasetRepository, rubric scoring.Rubric, parallelism int) *Pipeline {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Pipeline{
		source:      source,
		repository:  repository,
		rubric:      rubric,
		parallelism: parallelism,
		log:         internal.NewLogger("Pipeline"),
	}
}

// Run executes one ingestion run. Per-workbook failures are isolated into the
// diagnostics and never abort the batch; a run over zero usable workbooks
// still produces the full no-evidence skeleton plus diagnostics.
func (p *Pipeline) Run(ctx context.Context) (*canonical.Dataset, *canonical.Diagnostics, error) {
	runID := core.NewRunID()
	p.log.Info("Starting ingestion run %s", runID)

	names, err := p.source.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu       sync.Mutex
		partials []canonical.WorkbookResult
		rejected []canonical.RejectedWorkbook
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for _, name := range names {
		g.Go(func() error {
			partial, err := p.ingestWorkbook(gctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if core.IsWorkbookRejection(err) {
					p.log.Warn("Workbook %s rejected: %v", name, err)
				} else {
					p.log.Error("Workbook %s failed: %v", name, err)
				}
				rejected = append(rejected, canonical.RejectedWorkbook{
					Workbook: core.NewWorkbookID(name),
					Reason:   err.Error(),
				})
				return nil // a rejected workbook never aborts the batch
			}
			partials = append(partials, partial)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Merge phase is single-goroutine; Build sorts partials by workbook ID
	// so conflict ties are reproducible regardless of completion order.
	dataset, diag := canonical.Build(runID, partials, rejected, p.rubric)
	p.log.Info("Run %s complete: %d workbooks ingested, %d rejected, %d rows, %d conflicts, fingerprint %s",
		runID, diag.WorkbooksIngested, len(diag.RejectedWorkbooks), diag.RowsNormalized, len(diag.Conflicts), dataset.Fingerprint())

	if p.repository != nil {
		if err := p.repository.SaveRun(ctx, dataset, diag); err != nil {
			return nil, nil, err
		}
	}

	return dataset, diag, nil
}

// ingestWorkbook runs the per-workbook phase: read, sniff, normalize.
func (p *Pipeline) ingestWorkbook(ctx context.Context, name string) (canonical.WorkbookResult, error) {
	wb, err := p.source.Read(ctx, name)
	if err != nil {
		return canonical.WorkbookResult{}, err
	}

	mapping, err := ingestion.SniffSchema(wb)
	if err != nil {
		return canonical.WorkbookResult{}, err
	}

	rows, rejects := ingestion.NormalizeRows(wb, mapping)
	return canonical.WorkbookResult{
		Workbook: wb.ID,
		Mapping:  mapping,
		Rows:     rows,
		Rejects:  rejects,
	}, nil
}
