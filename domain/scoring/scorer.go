package scoring

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"lawatlas/domain/ingestion"
	"lawatlas/domain/states"
)

// CategoryScore is the scored evidence for one (state, category) pair.
// Score is a pure deterministic function of the contributing evidence and the
// rubric: identical input always yields an identical score.
type CategoryScore struct {
	State      states.Code            `json:"state"`
	Category   ingestion.Field        `json:"category"`
	Score      float64                `json:"score"` // [0,1]
	NoEvidence bool                   `json:"no_evidence"`
	Evidence   []ingestion.Provenance `json:"evidence,omitempty"`
}

// ScoreState scores every rubric category for one state from all of its
// normalized rows across workbooks. Categories absent from the rubric but
// present in the data are returned as skipped, never scored and never fatal.
// Output is sorted by category for deterministic downstream diffing.
func ScoreState(state states.Code, rows []ingestion.NormalizedRow, rubric Rubric) ([]CategoryScore, []ingestion.Field) {
	ordered := orderRows(rows)

	scores := make([]CategoryScore, 0, len(rubric.Categories))
	for _, field := range rubric.Fields() {
		rule := rubric.Categories[field]

		var texts []string
		var evidence []ingestion.Provenance
		for _, r := range ordered {
			if v, ok := r.Value(field); ok {
				texts = append(texts, v)
				evidence = append(evidence, r.Provenance)
			}
		}

		if len(texts) == 0 {
			// No source ever stated this category: explicitly flagged,
			// distinct from a deliberately assigned zero.
			scores = append(scores, CategoryScore{
				State: state, Category: field, Score: 0, NoEvidence: true,
			})
			continue
		}

		scores = append(scores, CategoryScore{
			State:    state,
			Category: field,
			Score:    applyRule(rule, strings.Join(texts, "\n")),
			Evidence: evidence,
		})
	}

	return scores, skippedCategories(rows, rubric)
}

// applyRule maps concatenated evidence text into [0,1].
func applyRule(rule CategoryRule, text string) float64 {
	lower := strings.ToLower(text)

	switch rule.Rule {
	case RuleKeywordCount:
		hits := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
			}
		}
		score := float64(hits) / float64(len(rule.Keywords))
		if score > 1 {
			score = 1
		}
		return score

	case RuleEnumeratedTier:
		// Highest matched tier wins; evidence matching no tier scores a
		// deliberate zero, not NoEvidence.
		best := -1
		for i, tier := range rule.Tiers {
			if strings.Contains(lower, strings.ToLower(tier)) {
				best = i
			}
		}
		if best < 0 {
			return 0
		}
		return float64(best) / float64(len(rule.Tiers)-1)

	default: // RulePresence
		return 1
	}
}

// Aggregate computes the weighted mean over categories with evidence.
// No-evidence categories are excluded from the weight denominator so states
// whose sources simply omit a column are not penalized. Returns nil when
// every category lacks evidence.
func Aggregate(scores []CategoryScore, rubric Rubric) *float64 {
	var values, weights []float64
	for _, s := range scores {
		if s.NoEvidence {
			continue
		}
		rule, ok := rubric.Categories[s.Category]
		if !ok || rule.Weight == 0 {
			continue
		}
		values = append(values, s.Score)
		weights = append(weights, rule.Weight)
	}
	if len(values) == 0 {
		return nil
	}
	mean := stat.Mean(values, weights)
	return &mean
}

// orderRows sorts rows by provenance so evidence concatenation order never
// depends on caller ordering.
func orderRows(rows []ingestion.NormalizedRow) []ingestion.NormalizedRow {
	ordered := make([]ingestion.NormalizedRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Provenance, ordered[j].Provenance
		if a.Workbook != b.Workbook {
			return a.Workbook < b.Workbook
		}
		if a.Sheet != b.Sheet {
			return a.Sheet < b.Sheet
		}
		return a.RowIndex < b.RowIndex
	})
	return ordered
}

// skippedCategories lists data fields present in rows with no rubric entry.
func skippedCategories(rows []ingestion.NormalizedRow, rubric Rubric) []ingestion.Field {
	seen := make(map[ingestion.Field]bool)
	for _, r := range rows {
		for f := range r.Fields {
			if _, ok := rubric.Categories[f]; !ok {
				seen[f] = true
			}
		}
	}
	out := make([]ingestion.Field, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
