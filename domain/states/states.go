// Package states holds the canonical table of U.S. states and territories
// used as the universal join key for every ingested workbook.
package states

import (
	"sort"
	"strings"
)

// Code is a canonical two-letter USPS state or territory code.
type Code string

// Region groups jurisdictions for filtering and display.
type Region string

const (
	RegionWestCoast    Region = "West Coast"
	RegionSouthwest    Region = "Southwest"
	RegionMountainWest Region = "Mountain West"
	RegionMidwest      Region = "Midwest"
	RegionNortheast    Region = "Northeast"
	RegionMidAtlantic  Region = "Mid-Atlantic"
	RegionSoutheast    Region = "Southeast"
	RegionAppalachia   Region = "Appalachia"
	RegionAlaskaHawaii Region = "Alaska & Hawaii"
	RegionTerritories  Region = "Territories"
)

// Jurisdiction is one canonical entry: 50 states plus recognized territories.
type Jurisdiction struct {
	Code      Code
	Name      string
	Region    Region
	Territory bool
	// Alternates are common spellings and abbreviations seen in source
	// spreadsheets beyond the official name and USPS code.
	Alternates []string
}

// All is the fixed 56-entry canonical set, ordered by code ascending.
var All = []Jurisdiction{
	{Code: "AK", Name: "Alaska", Region: RegionAlaskaHawaii},
	{Code: "AL", Name: "Alabama", Region: RegionSoutheast},
	{Code: "AR", Name: "Arkansas", Region: RegionSoutheast},
	{Code: "AS", Name: "American Samoa", Region: RegionTerritories, Territory: true},
	{Code: "AZ", Name: "Arizona", Region: RegionSouthwest},
	{Code: "CA", Name: "California", Region: RegionWestCoast, Alternates: []string{"Calif.", "Calif"}},
	{Code: "CO", Name: "Colorado", Region: RegionMountainWest},
	{Code: "CT", Name: "Connecticut", Region: RegionNortheast, Alternates: []string{"Conn.", "Conn"}},
	{Code: "DC", Name: "District of Columbia", Region: RegionMidAtlantic, Territory: true, Alternates: []string{"Washington D.C.", "Washington DC", "D.C."}},
	{Code: "DE", Name: "Delaware", Region: RegionMidAtlantic},
	{Code: "FL", Name: "Florida", Region: RegionSoutheast, Alternates: []string{"Fla.", "Fla"}},
	{Code: "GA", Name: "Georgia", Region: RegionSoutheast},
	{Code: "GU", Name: "Guam", Region: RegionTerritories, Territory: true},
	{Code: "HI", Name: "Hawaii", Region: RegionAlaskaHawaii, Alternates: []string{"Hawai'i", "Hawaiʻi"}},
	{Code: "IA", Name: "Iowa", Region: RegionMidwest},
	{Code: "ID", Name: "Idaho", Region: RegionMountainWest},
	{Code: "IL", Name: "Illinois", Region: RegionMidwest},
	{Code: "IN", Name: "Indiana", Region: RegionMidwest},
	{Code: "KS", Name: "Kansas", Region: RegionMidwest},
	{Code: "KY", Name: "Kentucky", Region: RegionAppalachia},
	{Code: "LA", Name: "Louisiana", Region: RegionSoutheast},
	{Code: "MA", Name: "Massachusetts", Region: RegionNortheast, Alternates: []string{"Mass.", "Mass"}},
	{Code: "MD", Name: "Maryland", Region: RegionMidAtlantic},
	{Code: "ME", Name: "Maine", Region: RegionNortheast},
	{Code: "MI", Name: "Michigan", Region: RegionMidwest, Alternates: []string{"Mich.", "Mich"}},
	{Code: "MN", Name: "Minnesota", Region: RegionMidwest, Alternates: []string{"Minn.", "Minn"}},
	{Code: "MO", Name: "Missouri", Region: RegionMidwest},
	{Code: "MP", Name: "Northern Mariana Islands", Region: RegionTerritories, Territory: true, Alternates: []string{"CNMI", "Commonwealth of the Northern Mariana Islands"}},
	{Code: "MS", Name: "Mississippi", Region: RegionSoutheast, Alternates: []string{"Miss.", "Miss"}},
	{Code: "MT", Name: "Montana", Region: RegionMountainWest},
	{Code: "NC", Name: "North Carolina", Region: RegionSoutheast, Alternates: []string{"N. Carolina"}},
	{Code: "ND", Name: "North Dakota", Region: RegionMidwest, Alternates: []string{"N. Dakota"}},
	{Code: "NE", Name: "Nebraska", Region: RegionMidwest, Alternates: []string{"Neb.", "Nebr."}},
	{Code: "NH", Name: "New Hampshire", Region: RegionNortheast},
	{Code: "NJ", Name: "New Jersey", Region: RegionMidAtlantic},
	{Code: "NM", Name: "New Mexico", Region: RegionSouthwest, Alternates: []string{"N. Mexico"}},
	{Code: "NV", Name: "Nevada", Region: RegionMountainWest},
	{Code: "NY", Name: "New York", Region: RegionNortheast, Alternates: []string{"N.Y.", "New York State"}},
	{Code: "OH", Name: "Ohio", Region: RegionMidwest},
	{Code: "OK", Name: "Oklahoma", Region: RegionSouthwest, Alternates: []string{"Okla.", "Okla"}},
	{Code: "OR", Name: "Oregon", Region: RegionWestCoast},
	{Code: "PA", Name: "Pennsylvania", Region: RegionMidAtlantic, Alternates: []string{"Penn.", "Penna."}},
	{Code: "PR", Name: "Puerto Rico", Region: RegionTerritories, Territory: true},
	{Code: "RI", Name: "Rhode Island", Region: RegionNortheast},
	{Code: "SC", Name: "South Carolina", Region: RegionSoutheast, Alternates: []string{"S. Carolina"}},
	{Code: "SD", Name: "South Dakota", Region: RegionMidwest, Alternates: []string{"S. Dakota"}},
	{Code: "TN", Name: "Tennessee", Region: RegionAppalachia, Alternates: []string{"Tenn.", "Tenn"}},
	{Code: "TX", Name: "Texas", Region: RegionSouthwest, Alternates: []string{"Tex.", "Tex"}},
	{Code: "UT", Name: "Utah", Region: RegionMountainWest},
	{Code: "VA", Name: "Virginia", Region: RegionMidAtlantic},
	{Code: "VI", Name: "U.S. Virgin Islands", Region: RegionTerritories, Territory: true, Alternates: []string{"US Virgin Islands", "Virgin Islands"}},
	{Code: "VT", Name: "Vermont", Region: RegionNortheast},
	{Code: "WA", Name: "Washington", Region: RegionWestCoast, Alternates: []string{"Washington State", "Wash."}},
	{Code: "WI", Name: "Wisconsin", Region: RegionMidwest, Alternates: []string{"Wis.", "Wisc."}},
	{Code: "WV", Name: "West Virginia", Region: RegionAppalachia, Alternates: []string{"W. Virginia", "W.Va."}},
	{Code: "WY", Name: "Wyoming", Region: RegionMountainWest, Alternates: []string{"Wyo."}},
}

var (
	byCode map[Code]Jurisdiction
	byName map[string]Code // normalized name/alternate -> code
)

func init() {
	byCode = make(map[Code]Jurisdiction, len(All))
	byName = make(map[string]Code, len(All)*2)
	for _, j := range All {
		byCode[j.Code] = j
		byName[normalizeToken(j.Name)] = j.Code
		byName[strings.ToLower(string(j.Code))] = j.Code
		for _, alt := range j.Alternates {
			byName[normalizeToken(alt)] = j.Code
		}
	}
}

// Count is the size of the canonical set.
func Count() int { return len(All) }

// Codes returns all canonical codes sorted ascending.
func Codes() []Code {
	out := make([]Code, 0, len(All))
	for _, j := range All {
		out = append(out, j.Code)
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out
}

// Lookup returns the jurisdiction for a canonical code.
func Lookup(code Code) (Jurisdiction, bool) {
	j, ok := byCode[code]
	return j, ok
}

// IsValid reports whether code belongs to the canonical set.
func IsValid(code Code) bool {
	_, ok := byCode[code]
	return ok
}

// RegionOf returns the region for a canonical code, or empty when unknown.
func RegionOf(code Code) Region {
	if j, ok := byCode[code]; ok {
		return j.Region
	}
	return ""
}

// Regions returns the distinct region names sorted ascending.
func Regions() []Region {
	seen := make(map[Region]bool)
	var out []Region
	for _, j := range All {
		if !seen[j.Region] {
			seen[j.Region] = true
			out = append(out, j.Region)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
		// punctuation dropped
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
