package ingestion

import (
	"errors"
	"testing"

	"lawatlas/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wb(id string, headers []string, rows ...RawRow) SourceWorkbook {
	return SourceWorkbook{
		ID:      core.WorkbookID(id),
		Sheet:   "Sheet1",
		Headers: headers,
		Rows:    rows,
	}
}

func TestSniffSchema_ExactHeaders(t *testing.T) {
	source := wb("west.xlsx",
		[]string{"State", "Key Statutes/Codes", "Notable Provisions"},
		RawRow{"State": "California", "Key Statutes/Codes": "Gov. Code 8550", "Notable Provisions": "mutual aid compact"},
		RawRow{"State": "Oregon", "Key Statutes/Codes": "ORS 401", "Notable Provisions": "county authority"},
	)

	mapping, err := SniffSchema(source)
	require.NoError(t, err)

	state, ok := mapping.Match(FieldState)
	require.True(t, ok)
	assert.Equal(t, "State", state.RawLabel)
	assert.Equal(t, 1.0, state.Confidence)

	statutes, ok := mapping.Match(FieldStatutes)
	require.True(t, ok)
	assert.Equal(t, "Key Statutes/Codes", statutes.RawLabel)
	assert.Equal(t, 1.0, statutes.Confidence)

	provisions, ok := mapping.Match(FieldProvisions)
	require.True(t, ok)
	assert.Equal(t, "Notable Provisions", provisions.RawLabel)
	assert.Equal(t, 1.0, provisions.Confidence)

	// No population-protection column in this source: absent, not an error.
	_, ok = mapping.Match(FieldVulnerablePopulations)
	assert.False(t, ok)
}

func TestSniffSchema_ContainmentFallback(t *testing.T) {
	source := wb("odd-headers.xlsx",
		[]string{"Jurisdiction Name", "Statewide Statute References", "Vulnerable Groups"},
		RawRow{"Jurisdiction Name": "Texas", "Statewide Statute References": "Tex. Gov't Code 418"},
		RawRow{"Jurisdiction Name": "Oklahoma", "Statewide Statute References": "63 O.S. 683"},
	)

	mapping, err := SniffSchema(source)
	require.NoError(t, err)

	state, ok := mapping.Match(FieldState)
	require.True(t, ok)
	assert.Equal(t, "Jurisdiction Name", state.RawLabel)
	assert.Less(t, state.Confidence, 1.0)
	assert.Greater(t, state.Confidence, 0.0)

	statutes, ok := mapping.Match(FieldStatutes)
	require.True(t, ok)
	assert.Equal(t, "Statewide Statute References", statutes.RawLabel)
	assert.Less(t, statutes.Confidence, 1.0)

	vuln, ok := mapping.Match(FieldVulnerablePopulations)
	require.True(t, ok)
	assert.Equal(t, "Vulnerable Groups", vuln.RawLabel)
}

func TestSniffSchema_StateColumnByValueSampling(t *testing.T) {
	// Header gives no hint; the values do.
	source := wb("unlabeled.xlsx",
		[]string{"Name", "Notes"},
		RawRow{"Name": "Iowa", "Notes": "x"},
		RawRow{"Name": "Kansas", "Notes": "y"},
		RawRow{"Name": "Nebraska", "Notes": "z"},
	)

	mapping, err := SniffSchema(source)
	require.NoError(t, err)

	state, ok := mapping.Match(FieldState)
	require.True(t, ok)
	assert.Equal(t, "Name", state.RawLabel)
	assert.Less(t, state.Confidence, 1.0)
}

func TestSniffSchema_NoStateColumn(t *testing.T) {
	source := wb("budget.xlsx",
		[]string{"Program", "Amount"},
		RawRow{"Program": "Mitigation grants", "Amount": "100000"},
		RawRow{"Program": "Shelter retrofits", "Amount": "250000"},
	)

	_, err := SniffSchema(source)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoStateColumn))
}

func TestSniffSchema_RejectsStateHeaderWithNonStateValues(t *testing.T) {
	// A column labeled "State" whose values are prose must not pass the
	// 60% validation gate.
	source := wb("prose.xlsx",
		[]string{"State", "Detail"},
		RawRow{"State": "Often varies by county", "Detail": "a"},
		RawRow{"State": "Not highlighted in statute", "Detail": "b"},
		RawRow{"State": "Patchwork coverage", "Detail": "c"},
	)

	_, err := SniffSchema(source)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoStateColumn))
}

func TestSniffSchema_NoHeaderRow(t *testing.T) {
	_, err := SniffSchema(SourceWorkbook{ID: "empty.xlsx", Sheet: "Sheet1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoHeaderRow))
}

func TestSniffSchema_Deterministic(t *testing.T) {
	source := wb("two-runs.xlsx",
		[]string{"State", "Key Statutes", "Equity Initiatives"},
		RawRow{"State": "Maine", "Key Statutes": "37-B M.R.S."},
	)

	first, err := SniffSchema(source)
	require.NoError(t, err)
	second, err := SniffSchema(source)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
