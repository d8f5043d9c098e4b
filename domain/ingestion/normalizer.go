package ingestion

import (
	"regexp"
	"strings"

	"lawatlas/domain/states"
)

// qualifierStoplist holds tokens that qualify a multi-state cell without
// naming a state. They are stripped, not rejected: "Iowa, Kansas, and others"
// yields exactly two rows.
var qualifierStoplist = map[string]bool{
	"etc":        true,
	"and others": true,
	"others":     true,
	"various":    true,
	"all states": true,
}

// junkIndicators flag cells that are URLs or descriptive prose rather than
// state lists. The whole cell is rejected as NoStateToken.
var junkIndicators = []string{
	"http", "www", ".pdf", ".gov", ".com",
	"often ", "varies", "not highlighted", "coordination",
	"many states", "some states",
}

var stateSeparators = regexp.MustCompile(`(?i)\s*(?:,|;|\band\b)\s*`)

// SplitStateCell splits a raw state cell into candidate tokens with stoplist
// qualifiers removed. An empty result means the cell named no state at all.
func SplitStateCell(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	lower := strings.ToLower(cell)
	for _, junk := range junkIndicators {
		if strings.Contains(lower, junk) {
			return nil
		}
	}

	parts := stateSeparators.Split(cell, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), ".")
		if p == "" {
			continue
		}
		if qualifierStoplist[strings.ToLower(p)] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NormalizeRows expands raw workbook rows into one NormalizedRow per resolved
// state. Multi-state cells fan out explicitly; every token that fails
// resolution lands on the reject list with a reason, never guessed and never
// silently dropped. Output order is deterministic: source row order, then
// token split order left to right.
func NormalizeRows(wb SourceWorkbook, mapping ColumnMapping) ([]NormalizedRow, []RejectedRow) {
	stateMatch, ok := mapping.Match(FieldState)
	if !ok {
		// SniffSchema guarantees a STATE column; a mapping without one
		// rejects every row.
		rejects := make([]RejectedRow, 0, len(wb.Rows))
		for i := range wb.Rows {
			rejects = append(rejects, RejectedRow{
				Workbook: wb.ID, Sheet: wb.Sheet, RowIndex: i,
				Reason: RejectNoStateToken,
			})
		}
		return nil, rejects
	}

	var rows []NormalizedRow
	var rejects []RejectedRow

	for i, raw := range wb.Rows {
		cell := strings.TrimSpace(raw[stateMatch.RawLabel])
		tokens := SplitStateCell(cell)
		if len(tokens) == 0 {
			rejects = append(rejects, RejectedRow{
				Workbook: wb.ID, Sheet: wb.Sheet, RowIndex: i,
				Token:  cell,
				Reason: RejectNoStateToken,
			})
			continue
		}

		fields := extractFields(raw, mapping)
		prov := Provenance{Workbook: wb.ID, Sheet: wb.Sheet, RowIndex: i}

		for _, token := range tokens {
			code, err := states.Resolve(token)
			if err != nil {
				rejects = append(rejects, RejectedRow{
					Workbook: wb.ID, Sheet: wb.Sheet, RowIndex: i,
					Token:  token,
					Reason: RejectUnresolvedState,
				})
				continue
			}
			rows = append(rows, NormalizedRow{
				State:      code,
				Fields:     fields,
				Provenance: prov,
			})
		}
	}

	return rows, rejects
}

// extractFields carries mapped non-STATE cells through verbatim. Empty or
// whitespace-only cells are omitted entirely: absence of a key is the
// explicit "not stated in source" marker.
func extractFields(raw RawRow, mapping ColumnMapping) map[Field]string {
	fields := make(map[Field]string)
	for _, f := range DataFields {
		match, ok := mapping.Match(f)
		if !ok {
			continue
		}
		value, present := raw[match.RawLabel]
		if !present || strings.TrimSpace(value) == "" {
			continue
		}
		fields[f] = value
	}
	return fields
}
