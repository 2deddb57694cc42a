// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// IdempotencyHeader carries the client supplied key of a create request.
const IdempotencyHeader = "Idempotency-Key"

// EventDependencies defines the interface for event operations.
type EventDependencies interface {
	Events(ctx context.Context) []model.Event
	CreateEventOnce(ctx context.Context, key string, in model.EventInput) (model.Event, bool, error)
	Participation(ctx context.Context) []types.EventParticipation
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type duplicateResponse struct {
	Status string       `json:"status"`
	Event  *model.Event `json:"event,omitempty"`
}

// HandleListEvents handles GET /api/events.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Events(r.Context()))
}

// HandleCreateEvent handles POST /api/events.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var in model.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	ev, duplicate, err := h.deps.CreateEventOnce(r.Context(), key, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if duplicate {
		resp := duplicateResponse{Status: "duplicate"}
		if ev.ID != "" {
			resp.Event = &ev
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleParticipation handles GET /api/events/participation.
func (h *EventsHandler) HandleParticipation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Participation(r.Context()))
}
