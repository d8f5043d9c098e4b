// Package ui exposes the canonical dataset over HTTP: a gin JSON API for
// dataset consumers and a chi ops surface for health checks and the run
// report.
package ui

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"lawatlas/domain/canonical"
	"lawatlas/domain/ingestion"
	"lawatlas/domain/states"
)

// Server serves a single immutable run result. A new Server is built per run;
// handlers never mutate the dataset.
type Server struct {
	router  *gin.Engine
	dataset *canonical.Dataset
	diag    *canonical.Diagnostics
}

// NewServer creates the JSON API server for a completed run.
func NewServer(dataset *canonical.Dataset, diag *canonical.Diagnostics) *Server {
	s := &Server{
		router:  gin.Default(),
		dataset: dataset,
		diag:    diag,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/states", s.handleListStates)
		api.GET("/states/:code", s.handleGetState)
		api.GET("/regions", s.handleListRegions)
		api.GET("/diagnostics", s.handleDiagnostics)
		api.GET("/healthz", s.handleHealth)
	}
}

// Router exposes the underlying handler for mounting and tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the API server on the given address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// handleListStates returns all state records, optionally filtered by region
// or by evidence in a given category (?has=civil_rights).
func (s *Server) handleListStates(c *gin.Context) {
	records := s.dataset.Records

	if region := c.Query("region"); region != "" {
		if !validRegion(region) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown region: " + region})
			return
		}
		records = filterRecords(records, func(r canonical.StateRecord) bool {
			return strings.EqualFold(string(r.Region), region)
		})
	}

	if has := c.Query("has"); has != "" {
		field := ingestion.Field(has)
		if !validField(field) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + has})
			return
		}
		records = filterRecords(records, func(r canonical.StateRecord) bool {
			for _, cs := range r.Categories {
				if cs.Category == field && !cs.NoEvidence {
					return true
				}
			}
			return false
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": s.dataset.RunID,
		"count":  len(records),
		"states": records,
	})
}

func (s *Server) handleGetState(c *gin.Context) {
	code := states.Code(strings.ToUpper(c.Param("code")))
	if !states.IsValid(code) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown state code: " + c.Param("code")})
		return
	}
	record, _ := s.dataset.Record(code)
	c.JSON(http.StatusOK, record)
}

// handleListRegions groups state codes by region.
func (s *Server) handleListRegions(c *gin.Context) {
	grouped := make(map[states.Region][]states.Code)
	for _, r := range s.dataset.Records {
		grouped[r.Region] = append(grouped[r.Region], r.Code)
	}

	regions := make([]gin.H, 0, len(grouped))
	for _, region := range states.Regions() {
		codes := grouped[region]
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		regions = append(regions, gin.H{
			"region": region,
			"states": codes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func (s *Server) handleDiagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, s.diag)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"run_id":      s.dataset.RunID,
		"states":      len(s.dataset.Records),
		"fingerprint": s.dataset.Fingerprint(),
	})
}

func filterRecords(records []canonical.StateRecord, keep func(canonical.StateRecord) bool) []canonical.StateRecord {
	out := make([]canonical.StateRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func validRegion(name string) bool {
	for _, r := range states.Regions() {
		if strings.EqualFold(string(r), name) {
			return true
		}
	}
	return false
}

func validField(f ingestion.Field) bool {
	for _, d := range ingestion.DataFields {
		if d == f {
			return true
		}
	}
	return false
}
