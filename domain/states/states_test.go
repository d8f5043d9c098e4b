package states

import (
	"errors"
	"testing"

	"lawatlas/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSetSize(t *testing.T) {
	assert.Equal(t, 56, Count(), "50 states + 6 recognized territories")

	territories := 0
	for _, j := range All {
		if j.Territory {
			territories++
		}
	}
	assert.Equal(t, 6, territories)
}

func TestCodesSortedAscending(t *testing.T) {
	codes := Codes()
	require.Len(t, codes, 56)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, string(codes[i-1]), string(codes[i]))
	}
}

func TestResolve_ExactForms(t *testing.T) {
	cases := []struct {
		token string
		want  Code
	}{
		{"California", "CA"},
		{"california", "CA"},
		{"  California  ", "CA"},
		{"CA", "CA"},
		{"ca", "CA"},
		{"District of Columbia", "DC"},
		{"Washington D.C.", "DC"},
		{"U.S. Virgin Islands", "VI"},
		{"Virgin Islands", "VI"},
		{"New York State", "NY"},
		{"CNMI", "MP"},
		{"Hawai'i", "HI"},
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			code, err := Resolve(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestResolve_FuzzyWithinTwoEdits(t *testing.T) {
	cases := []struct {
		token string
		want  Code
	}{
		{"Californa", "CA"},   // one deletion
		{"Misissippi", "MS"},  // one deletion
		{"Conecticut", "CT"},  // one deletion
		{"Pensylvania", "PA"}, // one deletion
		{"Wyomming", "WY"},    // one insertion
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			code, err := Resolve(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestResolve_NoFuzzyForShortTokens(t *testing.T) {
	// "CQ" is one edit from several codes; codes must match exactly.
	_, err := Resolve("CQ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnresolvedState))
}

func TestResolve_Unresolvable(t *testing.T) {
	for _, token := range []string{"Atlantis", "Often varies by county", "http://example.gov"} {
		_, err := Resolve(token)
		assert.Error(t, err, token)
	}
}

func TestResolve_EmptyToken(t *testing.T) {
	_, err := Resolve("   ")
	assert.True(t, errors.Is(err, core.ErrNoStateToken))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("iowa", "iowa"))
	assert.Equal(t, 1, editDistance("iowa", "iowas"))
	assert.Equal(t, 2, editDistance("kansas", "kanses "))
	assert.Equal(t, 4, editDistance("", "utah"))
}

func TestRegions(t *testing.T) {
	assert.Equal(t, RegionWestCoast, RegionOf("CA"))
	assert.Equal(t, RegionTerritories, RegionOf("GU"))
	assert.Equal(t, Region(""), RegionOf("XX"))

	regions := Regions()
	assert.Len(t, regions, 10)
}
