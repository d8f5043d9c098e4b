// Package scoring computes per-state protection scores from normalized rows
// under an externally configured rubric.
package scoring

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
)

// RuleKind selects how a category's free-text evidence becomes a score.
type RuleKind string

const (
	RulePresence       RuleKind = "presence"
	RuleKeywordCount   RuleKind = "keyword_count"
	RuleEnumeratedTier RuleKind = "enumerated_tier"
)

// CategoryRule is one rubric entry: a non-negative weight plus the scoring
// rule and its parameters.
type CategoryRule struct {
	Weight   float64  `yaml:"weight"`
	Rule     RuleKind `yaml:"scoring_rule"`
	Keywords []string `yaml:"keywords,omitempty"` // keyword_count only
	Tiers    []string `yaml:"tiers,omitempty"`    // enumerated_tier only, lowest first
}

// Rubric maps categories to rules. Loaded once per run, immutable after.
type Rubric struct {
	Categories map[ingestion.Field]CategoryRule `yaml:"categories"`
}

// Fields returns rubric categories in stable sorted order.
func (r Rubric) Fields() []ingestion.Field {
	out := make([]ingestion.Field, 0, len(r.Categories))
	for f := range r.Categories {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks every rubric entry. Weights must be non-negative; they need
// not sum to 1 because aggregation normalizes by the weights actually present.
func (r Rubric) Validate() error {
	if len(r.Categories) == 0 {
		return core.NewRubricError("<rubric>", "no categories configured")
	}
	for field, rule := range r.Categories {
		if rule.Weight < 0 {
			return core.NewRubricError(string(field), fmt.Sprintf("negative weight %v", rule.Weight))
		}
		switch rule.Rule {
		case RulePresence:
		case RuleKeywordCount:
			if len(rule.Keywords) == 0 {
				return core.NewRubricError(string(field), "keyword_count requires keywords")
			}
		case RuleEnumeratedTier:
			if len(rule.Tiers) < 2 {
				return core.NewRubricError(string(field), "enumerated_tier requires at least two tiers")
			}
		default:
			return core.NewRubricError(string(field), fmt.Sprintf("unknown scoring_rule %q", rule.Rule))
		}
	}
	return nil
}

// LoadRubric reads and validates a YAML rubric file.
func LoadRubric(path string) (Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("failed to read rubric file: %w", err)
	}
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rubric{}, fmt.Errorf("failed to parse rubric file: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

// DefaultRubric is used when no rubric file is configured. Weights favor the
// population-protection categories the dataset exists to surface.
func DefaultRubric() Rubric {
	return Rubric{
		Categories: map[ingestion.Field]CategoryRule{
			ingestion.FieldStatutes:       {Weight: 1.0, Rule: RulePresence},
			ingestion.FieldLocalAuthority: {Weight: 1.0, Rule: RulePresence},
			ingestion.FieldProvisions:     {Weight: 1.0, Rule: RulePresence},
			ingestion.FieldVulnerablePopulations: {
				Weight: 2.0,
				Rule:   RuleKeywordCount,
				Keywords: []string{
					"shelter", "registry", "notification", "evacuation",
					"medical", "transportation",
				},
			},
			ingestion.FieldCivilRights: {
				Weight: 2.0,
				Rule:   RuleKeywordCount,
				Keywords: []string{
					"discrimination", "civil rights", "equal access", "complaint",
				},
			},
			ingestion.FieldLanguageAccess: {Weight: 1.5, Rule: RulePresence},
			ingestion.FieldDisability:     {Weight: 1.5, Rule: RulePresence},
			ingestion.FieldEquity: {
				Weight: 1.5,
				Rule:   RuleEnumeratedTier,
				Tiers:  []string{"none", "pilot", "statutory"},
			},
			ingestion.FieldEmergencyPowers: {Weight: 1.0, Rule: RulePresence},
			ingestion.FieldMitigation:      {Weight: 1.0, Rule: RulePresence},
			ingestion.FieldMutualAid:       {Weight: 1.0, Rule: RulePresence},
		},
	}
}
