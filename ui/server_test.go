package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawatlas/domain/canonical"
	"lawatlas/domain/core"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/scoring"
	"lawatlas/domain/states"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRun(t *testing.T) (*canonical.Dataset, *canonical.Diagnostics) {
	t.Helper()

	rows := []ingestion.NormalizedRow{
		{
			State:  "CA",
			Fields: map[ingestion.Field]string{ingestion.FieldStatutes: "Gov. Code 8550"},
			Provenance: ingestion.Provenance{
				Workbook: "legal.xlsx", Sheet: "Sheet1", RowIndex: 0,
			},
		},
		{
			State:  "OR",
			Fields: map[ingestion.Field]string{ingestion.FieldProvisions: "shelter access"},
			Provenance: ingestion.Provenance{
				Workbook: "legal.xlsx", Sheet: "Sheet1", RowIndex: 1,
			},
		},
	}
	partial := canonical.WorkbookResult{
		Workbook: "legal.xlsx",
		Mapping: ingestion.ColumnMapping{
			Workbook: "legal.xlsx",
			Columns: map[ingestion.Field]ingestion.ColumnMatch{
				ingestion.FieldState:      {RawLabel: "State", Confidence: 1.0},
				ingestion.FieldStatutes:   {RawLabel: "Statutes", Confidence: 1.0},
				ingestion.FieldProvisions: {RawLabel: "Provisions", Confidence: 1.0},
			},
		},
		Rows: rows,
	}
	rubric := scoring.Rubric{
		Categories: map[ingestion.Field]scoring.CategoryRule{
			ingestion.FieldStatutes:   {Weight: 1.0, Rule: scoring.RulePresence},
			ingestion.FieldProvisions: {Weight: 1.0, Rule: scoring.RulePresence},
		},
	}
	return canonical.Build(core.NewRunID(), []canonical.WorkbookResult{partial}, nil, rubric)
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListStates(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/states")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count  int                     `json:"count"`
		States []canonical.StateRecord `json:"states"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 56, body.Count)
	assert.Equal(t, states.Code("AK"), body.States[0].Code)
}

func TestListStatesRegionFilter(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/states?region=West%20Coast")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		States []canonical.StateRecord `json:"states"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.States)
	for _, r := range body.States {
		assert.Equal(t, states.RegionWestCoast, r.Region)
	}

	w = doGet(t, srv.Router(), "/api/states?region=Atlantis")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListStatesEvidenceFilter(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/states?has=statutes")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		States []canonical.StateRecord `json:"states"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.States, 1)
	assert.Equal(t, states.Code("CA"), body.States[0].Code)

	w = doGet(t, srv.Router(), "/api/states?has=flood_insurance")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetState(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/states/ca")
	require.Equal(t, http.StatusOK, w.Code)

	var record canonical.StateRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, states.Code("CA"), record.Code)
	require.NotNil(t, record.Aggregate)

	w = doGet(t, srv.Router(), "/api/states/ZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRegions(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/regions")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Regions []struct {
			Region states.Region `json:"region"`
			States []states.Code `json:"states"`
		} `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Regions, 10)

	total := 0
	for _, r := range body.Regions {
		total += len(r.States)
	}
	assert.Equal(t, 56, total)
}

func TestDiagnosticsAndHealth(t *testing.T) {
	dataset, diag := testRun(t)
	srv := NewServer(dataset, diag)

	w := doGet(t, srv.Router(), "/api/diagnostics")
	require.Equal(t, http.StatusOK, w.Code)

	var got canonical.Diagnostics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.WorkbooksIngested)
	assert.Equal(t, 2, got.Coverage.StatesWithEvidence)

	w = doGet(t, srv.Router(), "/api/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOpsServer(t *testing.T) {
	dataset, diag := testRun(t)
	ops := NewOpsServer(dataset, diag)

	w := doGet(t, ops.Router(), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), dataset.RunID.String())

	w = doGet(t, ops.Router(), "/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<table>")
	assert.Contains(t, w.Body.String(), "California")

	w = doGet(t, ops.Router(), "/report.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "## Summary")
}
