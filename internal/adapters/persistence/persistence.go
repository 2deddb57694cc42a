// Package persistence stores the participation snapshot locally.
//
// Schools and events are stored independently, like two keys of a
// key-value store, so a backend may hold either one alone.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/simonev/internal/domain/model"
)

// Backend loads and saves snapshots.
type Backend interface {
	// Load returns whatever was stored. A backend with nothing stored returns
	// a PartialSnapshot with both Has flags false and no error.
	Load(ctx context.Context) (model.PartialSnapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// Open returns the backend named by driver.
func Open(driver, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "file":
		return NewFileBackend(path)
	case "sqlite":
		return OpenSQLite(path)
	case "memory":
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// decode turns the stored documents into a PartialSnapshot, running the same
// checks and migration as a restore.
func decode(schools, events []byte) (model.PartialSnapshot, error) {
	if schools == nil && events == nil {
		return model.PartialSnapshot{}, nil
	}
	var b strings.Builder
	b.WriteByte('{')
	if schools != nil {
		b.WriteString(`"schools":`)
		b.Write(schools)
	}
	if events != nil {
		if schools != nil {
			b.WriteByte(',')
		}
		b.WriteString(`"events":`)
		b.Write(events)
	}
	b.WriteByte('}')
	p, err := model.ParseSnapshot([]byte(b.String()))
	if err != nil {
		return model.PartialSnapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return p, nil
}
