package canonical

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/scoring"
	"lawatlas/domain/states"
)

// chosenValue tracks the current primary value for one state+category while
// partials fold in.
type chosenValue struct {
	value      string
	confidence float64
	source     ingestion.Provenance
}

// Build folds every workbook's partial result into one StateRecord per
// canonical jurisdiction.
//
// Conflict policy, stated explicitly: when two workbooks report different
// free-text values for the same state+category, the value from the workbook
// whose sniffer mapped that column with higher confidence becomes the primary
// display value; equal confidence keeps the earlier workbook (partials are
// folded in ascending workbook-ID order, so ties are reproducible). The
// losing value is logged in the conflict log and all provenance is kept.
func Build(runID core.RunID, partials []WorkbookResult, rejected []RejectedWorkbook, rubric scoring.Rubric) (*Dataset, *Diagnostics) {
	ordered := make([]WorkbookResult, len(partials))
	copy(ordered, partials)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Workbook < ordered[j].Workbook
	})

	diag := &Diagnostics{
		RejectedRows:      []ingestion.RejectedRow{},
		RejectedWorkbooks: append([]RejectedWorkbook{}, rejected...),
		Conflicts:         []ConflictEntry{},
		WorkbooksIngested: len(ordered),
	}

	rowsByState := make(map[states.Code][]ingestion.NormalizedRow)
	primaries := make(map[states.Code]map[ingestion.Field]chosenValue)
	conflictsByState := make(map[states.Code][]ConflictEntry)
	seenRows := make(map[string]bool)

	for _, partial := range ordered {
		diag.RejectedRows = append(diag.RejectedRows, partial.Rejects...)
		diag.RowsNormalized += len(partial.Rows)

		for _, r := range partial.Rows {
			// Repeated spreadsheet rows within one workbook carry no new
			// evidence; the first occurrence wins its provenance slot.
			key := string(r.Provenance.Workbook) + "|" + string(r.State) + "|" + r.FieldsHash().String()
			if seenRows[key] {
				continue
			}
			seenRows[key] = true

			rowsByState[r.State] = append(rowsByState[r.State], r)
			foldPrimaries(r, partial.Mapping, primaries, conflictsByState, diag)
		}
	}

	dataset := &Dataset{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Records:   make([]StateRecord, 0, states.Count()),
	}

	skippedSet := make(map[ingestion.Field]bool)
	var availability []float64

	// Every jurisdiction in the canonical set is emitted, evidence or not.
	for _, code := range states.Codes() {
		j, _ := states.Lookup(code)
		rows := rowsByState[code]

		scores, skipped := scoring.ScoreState(code, rows, rubric)
		for _, f := range skipped {
			skippedSet[f] = true
		}

		record := StateRecord{
			Code:             code,
			Name:             j.Name,
			Region:           j.Region,
			Territory:        j.Territory,
			Categories:       scores,
			Aggregate:        scoring.Aggregate(scores, rubric),
			DataAvailability: dataAvailability(rows),
			Conflicts:        conflictsByState[code],
		}

		if len(rows) > 0 {
			record.Primary = primaryValues(primaries[code])
			record.Provenance = provenanceOf(rows)
		}

		availability = append(availability, record.DataAvailability)
		if record.HasEvidence() {
			diag.Coverage.StatesWithEvidence++
		}

		dataset.Records = append(dataset.Records, record)
	}

	for _, record := range dataset.Records {
		diag.Conflicts = append(diag.Conflicts, record.Conflicts...)
	}
	for f := range skippedSet {
		diag.SkippedCategories = append(diag.SkippedCategories, f)
	}
	sort.Slice(diag.SkippedCategories, func(i, j int) bool {
		return diag.SkippedCategories[i] < diag.SkippedCategories[j]
	})

	fillCoverageStats(&diag.Coverage, availability)

	return dataset, diag
}

// foldPrimaries applies the conflict policy for every field one row states.
func foldPrimaries(
	r ingestion.NormalizedRow,
	mapping ingestion.ColumnMapping,
	primaries map[states.Code]map[ingestion.Field]chosenValue,
	conflicts map[states.Code][]ConflictEntry,
	diag *Diagnostics,
) {
	byField := primaries[r.State]
	if byField == nil {
		byField = make(map[ingestion.Field]chosenValue)
		primaries[r.State] = byField
	}

	for _, field := range ingestion.DataFields {
		value, ok := r.Value(field)
		if !ok {
			continue
		}
		confidence := 0.0
		if match, ok := mapping.Match(field); ok {
			confidence = match.Confidence
		}
		candidate := chosenValue{value: value, confidence: confidence, source: r.Provenance}

		current, exists := byField[field]
		if !exists {
			byField[field] = candidate
			continue
		}
		if current.value == value {
			continue // agreement is not a conflict
		}

		winner, loser := current, candidate
		if candidate.confidence > current.confidence {
			winner, loser = candidate, current
			byField[field] = candidate
		}

		conflicts[r.State] = append(conflicts[r.State], ConflictEntry{
			State:          r.State,
			Category:       field,
			PrimaryValue:   winner.value,
			PrimarySource:  winner.source,
			DiscardedValue: loser.value,
			DiscardedFrom:  loser.source,
		})
	}
}

func primaryValues(byField map[ingestion.Field]chosenValue) map[ingestion.Field]string {
	if len(byField) == 0 {
		return nil
	}
	out := make(map[ingestion.Field]string, len(byField))
	for f, c := range byField {
		out[f] = c.value
	}
	return out
}

// provenanceOf deduplicates contributing source rows in deterministic order.
func provenanceOf(rows []ingestion.NormalizedRow) []ingestion.Provenance {
	seen := make(map[string]bool)
	var out []ingestion.Provenance
	for _, r := range rows {
		key := r.Provenance.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r.Provenance)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// dataAvailability is the fraction of canonical data fields reported by any
// source for this state.
func dataAvailability(rows []ingestion.NormalizedRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	present := make(map[ingestion.Field]bool)
	for _, r := range rows {
		for f := range r.Fields {
			present[f] = true
		}
	}
	return float64(len(present)) / float64(len(ingestion.DataFields))
}

func fillCoverageStats(c *CoverageStats, availability []float64) {
	if len(availability) == 0 {
		return
	}
	if mean, err := stats.Mean(availability); err == nil {
		c.Mean = mean
	}
	if median, err := stats.Median(availability); err == nil {
		c.Median = median
	}
	if sd, err := stats.StandardDeviation(availability); err == nil {
		c.StdDev = sd
	}
}
