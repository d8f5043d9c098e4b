package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lawatlas/domain/canonical"
	"lawatlas/internal/report"
)

// OpsServer is the operational sidecar: liveness plus a human-readable run
// report. It stays separate from the JSON API so the report can be scraped
// without touching dataset endpoints.
type OpsServer struct {
	router  *chi.Mux
	dataset *canonical.Dataset
	diag    *canonical.Diagnostics
}

// NewOpsServer builds the ops router for a completed run.
func NewOpsServer(dataset *canonical.Dataset, diag *canonical.Diagnostics) *OpsServer {
	s := &OpsServer{
		router:  chi.NewRouter(),
		dataset: dataset,
		diag:    diag,
	}
	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/report", s.handleReport)
	s.router.Get("/report.md", s.handleReportMarkdown)
	return s
}

// Router exposes the underlying handler for mounting and tests.
func (s *OpsServer) Router() http.Handler {
	return s.router
}

// Run starts the ops server on the given address.
func (s *OpsServer) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok run=%s\n", s.dataset.RunID)
}

// handleReport renders the Markdown run report as HTML.
func (s *OpsServer) handleReport(w http.ResponseWriter, r *http.Request) {
	md := report.Render(s.dataset, s.diag)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	out := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// handleReportMarkdown serves the raw Markdown for CLI consumers.
func (s *OpsServer) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, report.Render(s.dataset, s.diag))
}
