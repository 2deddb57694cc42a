// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/simonev/internal/adapters/dateparse"
	"github.com/okian/simonev/internal/adapters/repository"
	"github.com/okian/simonev/internal/adapters/roster"
	"github.com/okian/simonev/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventDependencies
	RosterDependencies
	RankingDependencies
	DashboardDependencies
	BackupDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	eventsHandler    *EventsHandler
	rosterHandler    *RosterHandler
	rankingHandler   *RankingHandler
	dashboardHandler *DashboardHandler
	backupHandler    *BackupHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, maxLimit),
		eventsHandler:    NewEventsHandler(deps),
		rosterHandler:    NewRosterHandler(deps),
		rankingHandler:   NewRankingHandler(deps, maxLimit),
		dashboardHandler: NewDashboardHandler(deps),
		backupHandler:    NewBackupHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))
	mux.HandleFunc("POST /api/events", MetricsMiddleware(s.eventsHandler.HandleCreateEvent, "events"))
	mux.HandleFunc("GET /api/events/participation", MetricsMiddleware(s.eventsHandler.HandleParticipation, "participation"))
	mux.HandleFunc("POST /api/events/{id}/rosters", MetricsMiddleware(s.rosterHandler.HandleUpload, "rosters"))

	mux.HandleFunc("GET /api/schools", MetricsMiddleware(s.rankingHandler.HandleSchools, "schools"))
	mux.HandleFunc("GET /api/rankings", MetricsMiddleware(s.rankingHandler.HandleRankings, "rankings"))
	mux.HandleFunc("GET /api/tiers", MetricsMiddleware(s.rankingHandler.HandleTiers, "tiers"))

	mux.HandleFunc("GET /api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /api/summary", MetricsMiddleware(s.dashboardHandler.HandleSummary, "summary"))
	mux.HandleFunc("GET /api/charts/tiers.png", MetricsMiddleware(s.dashboardHandler.HandleTierChart, "charts"))
	mux.HandleFunc("GET /api/charts/events.png", MetricsMiddleware(s.dashboardHandler.HandleEventChart, "charts"))

	mux.HandleFunc("GET /api/backup", MetricsMiddleware(s.backupHandler.HandleBackup, "backup"))
	mux.HandleFunc("POST /api/restore", MetricsMiddleware(s.backupHandler.HandleRestore, "restore"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps sentinel errors from lower layers to a status code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateEvent):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, model.ErrMalformedSnapshot):
		writeError(w, http.StatusBadRequest, "malformed_snapshot", err)
	case errors.Is(err, model.ErrInvalidEvent),
		errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, model.ErrUnknownDataKind),
		errors.Is(err, dateparse.ErrUnrecognizedDate),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, roster.ErrUnsupportedFile),
		errors.Is(err, roster.ErrUnreadableWorkbook):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_file", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// filterParam reads ?category=.
func filterParam(r *http.Request) (model.Filter, error) {
	f, err := model.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		return model.All, WrapKind("api.filter", ErrBadRequest, err)
	}
	return f, nil
}
