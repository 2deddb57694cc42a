// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// DashboardDependencies defines the interface for dashboard views.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, f model.Filter) types.DashboardStats
	Summary(ctx context.Context, f model.Filter) string
	TierChart(ctx context.Context, f model.Filter) ([]byte, error)
	EventChart(ctx context.Context) ([]byte, error)
}

// DashboardHandler handles dashboard, summary and chart requests.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /api/dashboard?category=.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Dashboard(r.Context(), f))
}

// HandleSummary handles GET /api/summary?category=. It always answers 200
// with plain text; failures surface as fallback messages.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.deps.Summary(r.Context(), f)))
}

// HandleTierChart handles GET /api/charts/tiers.png?category=.
func (h *DashboardHandler) HandleTierChart(w http.ResponseWriter, r *http.Request) {
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	img, err := h.deps.TierChart(r.Context(), f)
	writePNG(w, img, err)
}

// HandleEventChart handles GET /api/charts/events.png.
func (h *DashboardHandler) HandleEventChart(w http.ResponseWriter, r *http.Request) {
	img, err := h.deps.EventChart(r.Context())
	writePNG(w, img, err)
}

func writePNG(w http.ResponseWriter, img []byte, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
