// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/quizpattern/internal/domain/report"
	"github.com/okian/quizpattern/internal/domain/types"
)

// DefaultMaxLimit bounds /standings?limit=N when no limit is configured.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReportDependencies
	StandingsDependencies
}

// ReportDependencies produces analysis reports.
type ReportDependencies interface {
	// Report runs the analysis over the loaded log.
	Report(ctx context.Context) (*report.Report, error)

	// Section returns one top-level report section by name.
	Section(ctx context.Context, name string) (any, error)
}

// StandingsDependencies exposes contestant standings.
type StandingsDependencies interface {
	TopN(ctx context.Context, n int) ([]Standing, error)
	Rank(ctx context.Context, contestantID string) (Standing, error)
}

// Standing mirrors the read shape returned by standings queries.
type Standing = types.Standing

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	reportHandler    *ReportHandler
	standingsHandler *StandingsHandler
}

// NewServer creates a new API server with all handlers. A maxLimit below one
// selects DefaultMaxLimit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		reportHandler:    NewReportHandler(deps),
		standingsHandler: NewStandingsHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/report/", MetricsMiddleware(s.reportHandler.HandleGetSection, "report_section"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/standings/", MetricsMiddleware(s.standingsHandler.HandleGetRank, "standings_rank"))
}
