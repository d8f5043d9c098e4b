// Package ingestion turns raw spreadsheet rows into canonical per-state
// observations: schema sniffing first, then row normalization.
package ingestion

import (
	"fmt"
	"sort"

	"lawatlas/domain/core"
	"lawatlas/domain/states"
)

// Field is a canonical dataset field inferred from raw column headers.
type Field string

const (
	FieldState                 Field = "state"
	FieldStatutes              Field = "statutes"
	FieldLocalAuthority        Field = "local_authority"
	FieldProvisions            Field = "provisions"
	FieldVulnerablePopulations Field = "vulnerable_populations"
	FieldCivilRights           Field = "civil_rights"
	FieldLanguageAccess        Field = "language_access"
	FieldDisability            Field = "disability"
	FieldEquity                Field = "equity"
	FieldEmergencyPowers       Field = "emergency_powers"
	FieldMitigation            Field = "mitigation"
	FieldMutualAid             Field = "mutual_aid"
)

// DataFields lists every canonical field except STATE, in stable order.
// STATE is the join key, not a data field.
var DataFields = []Field{
	FieldStatutes,
	FieldLocalAuthority,
	FieldProvisions,
	FieldVulnerablePopulations,
	FieldCivilRights,
	FieldLanguageAccess,
	FieldDisability,
	FieldEquity,
	FieldEmergencyPowers,
	FieldMitigation,
	FieldMutualAid,
}

// RawRow represents one spreadsheet row as column-label keyed cell values.
type RawRow map[string]string

// SourceWorkbook is one ingested spreadsheet file. Immutable once read.
type SourceWorkbook struct {
	ID      core.WorkbookID
	Sheet   string
	Headers []string
	Rows    []RawRow
}

// ColumnMatch records which raw column a canonical field was inferred from.
type ColumnMatch struct {
	RawLabel   string
	Confidence float64 // [0,1]; 1.0 means exact normalized header match
}

// ColumnMapping maps canonical fields to the raw columns they were sniffed
// from. A field with no matching column is simply absent. Never mutated after
// creation.
type ColumnMapping struct {
	Workbook core.WorkbookID
	Columns  map[Field]ColumnMatch
}

// Match returns the sniffed column for a field, if any.
func (m ColumnMapping) Match(f Field) (ColumnMatch, bool) {
	c, ok := m.Columns[f]
	return c, ok
}

// MappedFields returns the canonical fields present in the mapping, sorted.
func (m ColumnMapping) MappedFields() []Field {
	out := make([]Field, 0, len(m.Columns))
	for f := range m.Columns {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Provenance records which source workbook row contributed a value.
type Provenance struct {
	Workbook core.WorkbookID `json:"workbook"`
	Sheet    string          `json:"sheet"`
	RowIndex int             `json:"row_index"` // original data row index, 0-based
}

func (p Provenance) String() string {
	return fmt.Sprintf("%s!%s:%d", p.Workbook, p.Sheet, p.RowIndex)
}

// NormalizedRow is one (state, workbook row) observation. Fields holds only
// values actually stated in the source: a missing key is the explicit Absent
// marker, distinct from a present-but-empty string.
type NormalizedRow struct {
	State      states.Code
	Fields     map[Field]string
	Provenance Provenance
}

// Value returns the raw free-text value for a field and whether the source
// stated it at all.
func (r NormalizedRow) Value(f Field) (string, bool) {
	v, ok := r.Fields[f]
	return v, ok
}

// FieldsHash fingerprints the row's stated fields, independent of map order.
// Two rows with the same state and hash carry identical evidence.
func (r NormalizedRow) FieldsHash() core.Hash {
	flat := make(map[string]string, len(r.Fields))
	for f, v := range r.Fields {
		flat[string(f)] = v
	}
	return core.ComputeFieldsHash(flat)
}

// RejectReason classifies why a raw row (or token) was routed to the reject
// list instead of being normalized.
type RejectReason string

const (
	RejectUnresolvedState RejectReason = "UnresolvedState"
	RejectNoStateToken    RejectReason = "NoStateToken"
)

// RejectedRow preserves a rejected raw row for the diagnostic report. Rows
// are rejected loudly, never silently dropped.
type RejectedRow struct {
	Workbook core.WorkbookID `json:"workbook"`
	Sheet    string          `json:"sheet"`
	RowIndex int             `json:"row_index"`
	Token    string          `json:"token,omitempty"` // the offending state token, when applicable
	Reason   RejectReason    `json:"reason"`
}
