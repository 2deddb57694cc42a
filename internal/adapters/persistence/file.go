package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/okian/simonev/internal/domain/model"
)

// FileBackend stores the snapshot as one JSON document. Writes go to a
// temporary file in the same directory which is then renamed over the target.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend returns a backend writing to path. The file need not exist.
func NewFileBackend(path string) (*FileBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	return &FileBackend{path: filepath.Clean(path)}, nil
}

// Load implements Backend.
func (f *FileBackend) Load(ctx context.Context) (model.PartialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.PartialSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.PartialSnapshot{}, nil
	}
	if err != nil {
		return model.PartialSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.PartialSnapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return decode(nonNull(raw["schools"]), nonNull(raw["events"]))
}

// Save implements Backend.
func (f *FileBackend) Save(ctx context.Context, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".simonev-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Close implements Backend.
func (f *FileBackend) Close() error { return nil }

func nonNull(msg json.RawMessage) []byte {
	if len(msg) == 0 || strings.TrimSpace(string(msg)) == "null" {
		return nil
	}
	return msg
}
