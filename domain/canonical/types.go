// Package canonical merges per-workbook ingestion results into the single
// canonical dataset keyed by state code, the sole artifact any UI consumes.
package canonical

import (
	"encoding/json"
	"time"

	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/scoring"
	"lawatlas/domain/states"
)

// WorkbookResult is the immutable partial result of one workbook's
// sniff+normalize phase.
type WorkbookResult struct {
	Workbook core.WorkbookID
	Mapping  ingestion.ColumnMapping
	Rows     []ingestion.NormalizedRow
	Rejects  []ingestion.RejectedRow
}

// RejectedWorkbook records a workbook excluded wholesale (no state column,
// unreadable file). Logged, never silently skipped.
type RejectedWorkbook struct {
	Workbook core.WorkbookID `json:"workbook"`
	Reason   string          `json:"reason"`
}

// ConflictEntry logs a state+category disagreement between workbooks and the
// resolution taken. Both values stay auditable.
type ConflictEntry struct {
	State          states.Code          `json:"state"`
	Category       ingestion.Field      `json:"category"`
	PrimaryValue   string               `json:"primary_value"`
	PrimarySource  ingestion.Provenance `json:"primary_source"`
	DiscardedValue string               `json:"discarded_value"`
	DiscardedFrom  ingestion.Provenance `json:"discarded_from"`
}

// StateRecord is the final per-state aggregate. Aggregate is nil (JSON null)
// when no category has evidence; callers must not default it to 0.
type StateRecord struct {
	Code      states.Code   `json:"code"`
	Name      string        `json:"name"`
	Region    states.Region `json:"region"`
	Territory bool          `json:"territory"`

	Categories []scoring.CategoryScore `json:"categories"`
	Aggregate  *float64                `json:"aggregate"`

	// Primary holds the display value chosen per category when workbooks
	// disagree; see the builder's conflict policy.
	Primary map[ingestion.Field]string `json:"primary,omitempty"`

	// DataAvailability is the fraction of canonical data fields any source
	// reported for this state.
	DataAvailability float64 `json:"data_availability"`

	Provenance []ingestion.Provenance `json:"provenance,omitempty"`
	Conflicts  []ConflictEntry        `json:"conflicts,omitempty"`
}

// HasEvidence reports whether any category carries evidence.
func (r StateRecord) HasEvidence() bool {
	return r.Aggregate != nil
}

// Dataset is the ordered canonical output of one ingestion run:
// one record per canonical jurisdiction, sorted by state code ascending.
type Dataset struct {
	RunID     core.RunID    `json:"run_id"`
	CreatedAt time.Time     `json:"created_at"`
	Records   []StateRecord `json:"records"`
}

// Record returns the record for a state code.
func (d *Dataset) Record(code states.Code) (StateRecord, bool) {
	for _, r := range d.Records {
		if r.Code == code {
			return r, true
		}
	}
	return StateRecord{}, false
}

// Fingerprint hashes the records so two runs over the same inputs can be
// compared without diffing. RunID and CreatedAt are excluded.
func (d *Dataset) Fingerprint() core.DatasetHash {
	data, err := json.Marshal(d.Records)
	if err != nil {
		return ""
	}
	return core.NewDatasetHash(data)
}

// CoverageStats summarizes data availability across the canonical set.
type CoverageStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	// StatesWithEvidence counts records backed by at least one source row.
	StatesWithEvidence int `json:"states_with_evidence"`
}

// Diagnostics is the run-level report produced alongside every dataset, even
// when zero workbooks ingested successfully.
type Diagnostics struct {
	RejectedRows      []ingestion.RejectedRow `json:"rejected_rows"`
	RejectedWorkbooks []RejectedWorkbook      `json:"rejected_workbooks"`
	Conflicts         []ConflictEntry         `json:"conflicts"`
	SkippedCategories []ingestion.Field       `json:"skipped_categories,omitempty"`
	Coverage          CoverageStats           `json:"coverage"`
	WorkbooksIngested int                     `json:"workbooks_ingested"`
	RowsNormalized    int                     `json:"rows_normalized"`
}
