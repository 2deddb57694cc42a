// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/simonev/internal/adapters/repository"
	"github.com/okian/simonev/internal/domain/matching"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// maxUploadBytes bounds roster request bodies.
const maxUploadBytes = 16 << 20

// RosterDependencies defines the interface for roster uploads.
type RosterDependencies interface {
	UploadRoster(ctx context.Context, req types.UploadRequest) (types.UploadResult, error)
	UploadFile(ctx context.Context, eventID string, kind model.DataKind, filename string, data []byte, submittedAt time.Time) (types.UploadResult, error)
}

// RosterHandler handles roster uploads.
type RosterHandler struct {
	deps RosterDependencies
	now  func() time.Time
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps, now: time.Now}
}

// HandleUpload handles POST /api/events/{id}/rosters. The body is either
// JSON (types.RosterUpload) or multipart with a "file" part and a "kind" field.
func (h *RosterHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_roster"
	eventID := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		res types.UploadResult
		err error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		res, err = h.uploadMultipart(r, eventID)
	} else {
		res, err = h.uploadJSON(r, eventID)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeDomainError(w, err)
		return
	}
	if !res.EventFound {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, repository.ErrEventNotFound))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RosterHandler) uploadJSON(r *http.Request, eventID string) (types.UploadResult, error) {
	const op = "api.upload_roster"
	var body types.RosterUpload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return types.UploadResult{}, WrapKind(op, ErrBadRequest, err)
	}
	kind, err := model.ParseDataKind(body.Kind)
	if err != nil {
		return types.UploadResult{}, err
	}
	lines := make([]string, 0, len(body.Lines))
	for _, l := range body.Lines {
		lines = append(lines, matching.ParseRoster(l)...)
	}
	lines = append(lines, matching.ParseRoster(body.Text)...)

	submitted := h.now()
	if body.SubmittedAt != nil {
		submitted = *body.SubmittedAt
	}
	return h.deps.UploadRoster(r.Context(), types.UploadRequest{
		EventID:     eventID,
		Kind:        kind,
		Lines:       lines,
		SubmittedAt: submitted,
	})
}

func (h *RosterHandler) uploadMultipart(r *http.Request, eventID string) (types.UploadResult, error) {
	const op = "api.upload_roster"
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return types.UploadResult{}, WrapKind(op, ErrBadRequest, err)
	}
	kind, err := model.ParseDataKind(r.FormValue("kind"))
	if err != nil {
		return types.UploadResult{}, err
	}
	submitted := h.now()
	if v := r.FormValue("submitted_at"); v != "" {
		if submitted, err = time.Parse(time.RFC3339, v); err != nil {
			return types.UploadResult{}, WrapKind(op, ErrBadRequest, err)
		}
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return types.UploadResult{}, WrapKind(op, ErrBadRequest, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return types.UploadResult{}, WrapKind(op, ErrBadRequest, err)
	}
	return h.deps.UploadFile(r.Context(), eventID, kind, hdr.Filename, data, submitted)
}
