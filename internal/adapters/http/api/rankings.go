// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// RankingDependencies defines the interface for school and ranking reads.
type RankingDependencies interface {
	Schools(ctx context.Context, f model.Filter) []types.SchoolView
	Rankings(ctx context.Context, f model.Filter, limit int) []types.RankingEntry
	Tiers(ctx context.Context, f model.Filter) types.TierCounts
}

// RankingHandler handles school, ranking and tier requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleSchools handles GET /api/schools?category=.
func (h *RankingHandler) HandleSchools(w http.ResponseWriter, r *http.Request) {
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Schools(r.Context(), f))
}

// HandleRankings handles GET /api/rankings?category=&limit=N. Without a
// limit every school is returned.
func (h *RankingHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	n := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if h.maxLimit > 0 && n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.deps.Rankings(r.Context(), f, n))
}

// HandleTiers handles GET /api/tiers?category=.
func (h *RankingHandler) HandleTiers(w http.ResponseWriter, r *http.Request) {
	f, err := filterParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Tiers(r.Context(), f))
}
