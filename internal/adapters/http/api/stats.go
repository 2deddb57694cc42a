// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider reports runtime counters of the service.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service counters together with HTTP layer settings.
type StatsHandler struct {
	provider StatsProvider
	maxLimit int
	now      func() time.Time
}

// NewStatsHandler creates a stats handler. maxLimit is reported as maxRankingLimit.
func NewStatsHandler(provider StatsProvider, maxLimit int) *StatsHandler {
	return &StatsHandler{provider: provider, maxLimit: maxLimit, now: time.Now}
}

// HandleStats handles GET /stats. Counters change on every request, so the
// response is never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	out := map[string]interface{}{}
	if h.provider != nil {
		maps.Copy(out, h.provider.GetStats())
	}
	out["maxRankingLimit"] = h.maxLimit
	out["generatedAt"] = h.now().UTC().Format(time.RFC3339)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}
