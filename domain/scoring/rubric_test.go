package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawatlas/domain/ingestion"
)

const rubricYAML = `
categories:
  statutes:
    weight: 1.0
    scoring_rule: presence
  vulnerable_populations:
    weight: 2.0
    scoring_rule: keyword_count
    keywords: [shelter, registry, notification]
  equity:
    weight: 1.5
    scoring_rule: enumerated_tier
    tiers: [none, pilot, statutory]
`

func TestLoadRubric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rubricYAML), 0o644))

	rubric, err := LoadRubric(path)
	require.NoError(t, err)
	require.Len(t, rubric.Categories, 3)

	vuln := rubric.Categories[ingestion.FieldVulnerablePopulations]
	assert.Equal(t, 2.0, vuln.Weight)
	assert.Equal(t, RuleKeywordCount, vuln.Rule)
	assert.Len(t, vuln.Keywords, 3)

	equity := rubric.Categories[ingestion.FieldEquity]
	assert.Equal(t, RuleEnumeratedTier, equity.Rule)
	assert.Equal(t, []string{"none", "pilot", "statutory"}, equity.Tiers)
}

func TestLoadRubric_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  statutes:\n    weight: -3\n    scoring_rule: presence\n"), 0o644))

	_, err := LoadRubric(path)
	assert.Error(t, err)
}

func TestLoadRubric_MissingFile(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
