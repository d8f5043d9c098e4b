package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lawatlas/domain/canonical"
	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/states"
)

func TestRenderIncludesSummaryAndStates(t *testing.T) {
	runID := core.NewRunID()

	agg := 0.75
	dataset := &canonical.Dataset{
		RunID:     runID,
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Records: []canonical.StateRecord{
			{Code: "CA", Name: "California", Region: states.RegionWestCoast, Aggregate: &agg, DataAvailability: 0.5},
			{Code: "VT", Name: "Vermont", Region: states.RegionNortheast, Aggregate: nil},
		},
	}
	diag := &canonical.Diagnostics{
		RejectedRows: []ingestion.RejectedRow{
			{Workbook: "legal.xlsx", RowIndex: 4, Token: "Freedonia", Reason: ingestion.RejectUnresolvedState},
		},
		RejectedWorkbooks: []canonical.RejectedWorkbook{
			{Workbook: "budget.xlsx", Reason: "no state column"},
		},
		Conflicts: []canonical.ConflictEntry{
			{State: "CA", Category: ingestion.FieldProvisions, PrimaryValue: "shelter mandates", DiscardedValue: "unknown"},
		},
		Coverage:          canonical.CoverageStats{Mean: 0.4, Median: 0.5, StdDev: 0.1, StatesWithEvidence: 1},
		WorkbooksIngested: 2,
		RowsNormalized:    6,
	}

	md := Render(dataset, diag)

	assert.Contains(t, md, "# Ingestion Run "+runID.String())
	assert.Contains(t, md, "Workbooks ingested: 2")
	assert.Contains(t, md, "Rows normalized: 6")
	assert.Contains(t, md, "States with evidence: 1 of 2")
	assert.Contains(t, md, "| budget.xlsx | no state column |")
	assert.Contains(t, md, "Freedonia")
	assert.Contains(t, md, "shelter mandates")
	assert.Contains(t, md, "| CA | California | West Coast | 0.750 | 50% |")
	assert.Contains(t, md, "| VT | Vermont | Northeast | null | 0% |")
}

func TestRenderEmptyRun(t *testing.T) {
	runID := core.NewRunID()

	dataset := &canonical.Dataset{RunID: runID, CreatedAt: time.Now()}
	md := Render(dataset, &canonical.Diagnostics{})

	assert.Contains(t, md, "Workbooks ingested: 0")
	assert.NotContains(t, md, "## Conflicts")
	assert.NotContains(t, md, "## Rejected workbooks")
}

func TestTruncateEscapesTableBreakers(t *testing.T) {
	got := truncate("a|b\nc", 60)
	assert.Equal(t, `a\|b c`, got)

	long := truncate(strings.Repeat("a", 100), 10)
	assert.Len(t, long, 13)
}
