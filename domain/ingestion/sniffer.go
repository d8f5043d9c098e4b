package ingestion

import (
	"strings"

	"lawatlas/domain/core"
	"lawatlas/domain/states"
)

// stateValidationThreshold is the fraction of sampled non-empty cells that
// must parse as state tokens before a column is accepted as STATE.
const stateValidationThreshold = 0.60

// containmentCap keeps keyword-containment matches below exact-match
// confidence.
const containmentCap = 0.90

// maxStateSample bounds how many data rows the sniffer inspects per candidate.
const maxStateSample = 25

// fieldSynonyms maps canonical fields to normalized header spellings seen
// across the source spreadsheets. Exact normalized match wins with
// confidence 1.0.
var fieldSynonyms = map[Field][]string{
	FieldState: {
		"state", "states", "territory", "jurisdiction", "state territory",
		"state or territory", "states territories",
	},
	FieldStatutes: {
		"key statutes", "key statutes codes", "relevant statutes",
		"statutory authority", "statutes", "statute", "codes", "legal codes",
	},
	FieldLocalAuthority: {
		"local authority", "local authorities", "local government authority",
		"local emergency authority",
	},
	FieldProvisions: {
		"notable provisions", "provisions", "key provisions",
		"notable provision",
	},
	FieldVulnerablePopulations: {
		"vulnerable population protections", "vulnerable populations",
		"vulnerable protections", "protections for vulnerable populations",
		"at risk populations",
	},
	FieldCivilRights: {
		"civil rights", "civil rights provisions", "anti discrimination",
		"nondiscrimination", "discrimination protections",
	},
	FieldLanguageAccess: {
		"language access", "language access provisions", "language services",
	},
	FieldDisability: {
		"disability", "disability provisions", "disability needs",
		"functional needs", "access and functional needs",
	},
	FieldEquity: {
		"equity", "equity initiatives", "equity provisions",
	},
	FieldEmergencyPowers: {
		"emergency declaration", "emergency declarations", "emergency powers",
		"declaration authority",
	},
	FieldMitigation: {
		"mitigation", "mitigation planning", "hazard mitigation",
	},
	FieldMutualAid: {
		"mutual aid", "mutual aid agreements", "emac",
	},
}

// fieldKeywords drives the containment fallback when no synonym matches
// exactly. Confidence is proportional to keyword overlap, capped below 1.0.
var fieldKeywords = map[Field][]string{
	FieldState:                 {"state", "territory", "jurisdiction"},
	FieldStatutes:              {"statute", "code", "statutory"},
	FieldLocalAuthority:        {"local", "authority"},
	FieldProvisions:            {"notable", "provision"},
	FieldVulnerablePopulations: {"vulnerable", "population", "protection"},
	FieldCivilRights:           {"civil", "rights", "discrimination"},
	FieldLanguageAccess:        {"language", "access"},
	FieldDisability:            {"disability", "functional", "needs"},
	FieldEquity:                {"equity"},
	FieldEmergencyPowers:       {"emergency", "declaration", "powers"},
	FieldMitigation:            {"mitigation"},
	FieldMutualAid:             {"mutual", "aid"},
}

// SniffSchema infers which raw columns correspond to canonical fields.
// Pure function of the header row plus a small sample of data rows; the
// sample is only used to validate STATE candidates against the canonical
// jurisdiction set. Returns core.ErrNoStateColumn when no candidate column
// passes validation, in which case the whole workbook must be rejected.
func SniffSchema(wb SourceWorkbook) (ColumnMapping, error) {
	mapping := ColumnMapping{
		Workbook: wb.ID,
		Columns:  make(map[Field]ColumnMatch),
	}

	if len(wb.Headers) == 0 {
		return ColumnMapping{}, core.ErrNoHeaderRow
	}

	for _, field := range append([]Field{FieldState}, DataFields...) {
		label, confidence := bestHeaderMatch(field, wb.Headers)
		if label == "" {
			continue // field not present in this source; not an error
		}
		mapping.Columns[field] = ColumnMatch{RawLabel: label, Confidence: confidence}
	}

	if err := validateStateColumn(wb, &mapping); err != nil {
		return ColumnMapping{}, err
	}

	return mapping, nil
}

// bestHeaderMatch scores every header against one canonical field and returns
// the winning raw label. Headers are walked in order so ties resolve to the
// leftmost column, keeping sniffing deterministic.
func bestHeaderMatch(field Field, headers []string) (string, float64) {
	bestLabel := ""
	bestScore := 0.0

	for _, raw := range headers {
		norm := normalizeHeader(raw)
		if norm == "" {
			continue
		}

		score := 0.0
		for _, syn := range fieldSynonyms[field] {
			if norm == syn {
				score = 1.0
				break
			}
		}

		if score == 0 {
			score = containmentScore(norm, fieldKeywords[field])
		}

		if score > bestScore {
			bestScore = score
			bestLabel = raw
		}
	}

	if bestScore == 0 {
		return "", 0
	}
	return bestLabel, bestScore
}

// containmentScore returns keyword overlap scaled into (0, containmentCap].
// A single-keyword hit on a multi-keyword field still counts, just with
// proportionally lower confidence.
func containmentScore(normHeader string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(normHeader, kw) {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	return containmentCap * float64(hits) / float64(len(keywords))
}

// validateStateColumn confirms the sniffed STATE column actually holds state
// tokens. When the header-based candidate fails, every other column is tried
// by value sampling before giving up: some sources label the state column
// with something useless like "Name".
func validateStateColumn(wb SourceWorkbook, mapping *ColumnMapping) error {
	if match, ok := mapping.Columns[FieldState]; ok {
		if ratio := stateTokenRatio(wb, match.RawLabel); ratio >= stateValidationThreshold {
			return nil
		}
		delete(mapping.Columns, FieldState)
	}

	// Candidate columns by value, best ratio wins. Skip columns already
	// claimed by a data field.
	claimed := make(map[string]bool)
	for _, m := range mapping.Columns {
		claimed[m.RawLabel] = true
	}

	bestRatio := 0.0
	bestLabel := ""
	for _, raw := range wb.Headers {
		if claimed[raw] {
			continue
		}
		if ratio := stateTokenRatio(wb, raw); ratio > bestRatio {
			bestRatio = ratio
			bestLabel = raw
		}
	}

	if bestLabel != "" && bestRatio >= stateValidationThreshold {
		mapping.Columns[FieldState] = ColumnMatch{RawLabel: bestLabel, Confidence: bestRatio * containmentCap}
		return nil
	}

	return core.NewNoStateColumnError(wb.ID, bestRatio)
}

// stateTokenRatio samples non-empty cells in one column and reports the
// fraction whose tokens all resolve against the canonical jurisdiction set.
func stateTokenRatio(wb SourceWorkbook, label string) float64 {
	sampled := 0
	resolved := 0

	for _, row := range wb.Rows {
		if sampled >= maxStateSample {
			break
		}
		cell := strings.TrimSpace(row[label])
		if cell == "" {
			continue
		}
		sampled++

		tokens := SplitStateCell(cell)
		if len(tokens) == 0 {
			continue
		}
		ok := true
		for _, tok := range tokens {
			if _, err := states.Resolve(tok); err != nil {
				ok = false
				break
			}
		}
		if ok {
			resolved++
		}
	}

	if sampled == 0 {
		return 0
	}
	return float64(resolved) / float64(sampled)
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
