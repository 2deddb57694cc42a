// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/simonev/internal/domain/model"
)

// maxRestoreBytes bounds restore request bodies.
const maxRestoreBytes = 32 << 20

// BackupDependencies defines the interface for backup and restore.
type BackupDependencies interface {
	Backup(ctx context.Context) model.Snapshot
	Restore(ctx context.Context, data []byte) error
}

// BackupHandler handles snapshot download and restore.
type BackupHandler struct {
	deps BackupDependencies
	now  func() time.Time
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(deps BackupDependencies) *BackupHandler {
	return &BackupHandler{deps: deps, now: time.Now}
}

// BackupFilename is the download name of a backup taken at t.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("backup-simonev-%s.json", t.Format(model.DateLayout))
}

// HandleBackup handles GET /api/backup.
func (h *BackupHandler) HandleBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", BackupFilename(h.now())))
	writeJSON(w, http.StatusOK, h.deps.Backup(r.Context()))
}

// HandleRestore handles POST /api/restore. Fields missing from the document
// are left as they are.
func (h *BackupHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	const op = "api.restore"
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRestoreBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
		return
	}
	if err := h.deps.Restore(r.Context(), data); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
