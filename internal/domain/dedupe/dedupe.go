// Package dedupe tracks idempotency keys so a retried create request is applied at most once.
package dedupe

import (
	"context"
	"strings"
	"sync"
)

// defaultMaxKeys bounds the number of remembered keys.
const defaultMaxKeys = 4096

// Deduper records idempotency keys and the result they produced.
type Deduper interface {
	// Claim atomically checks key and records it if unseen.
	// It returns the result recorded for the key (possibly empty while the
	// first request is still in flight) and true when the key was seen before.
	Claim(ctx context.Context, key string) (result string, seen bool)

	// Complete attaches the result of the request that claimed key.
	Complete(ctx context.Context, key, result string)

	// Release forgets key so a failed request can be retried with it.
	Release(ctx context.Context, key string)

	Size() int
}

// keyDeduper keeps keys in insertion order and evicts the oldest completed
// one when full.
// maxKeys <= 0 means unbounded.
type keyDeduper struct {
	mu      sync.Mutex
	results map[string]string
	order   []string
	maxKeys int
}

// NewKeyDeduper creates an in-memory deduper.
func NewKeyDeduper(opts ...Option) Deduper {
	d := &keyDeduper{maxKeys: defaultMaxKeys}
	for _, opt := range opts {
		opt(d)
	}
	d.results = make(map[string]string)
	return d
}

func normalize(key string) string { return strings.TrimSpace(key) }

func (d *keyDeduper) Claim(_ context.Context, key string) (string, bool) {
	key = normalize(key)
	d.mu.Lock()
	defer d.mu.Unlock()

	if res, ok := d.results[key]; ok {
		return res, true
	}
	if d.maxKeys > 0 && len(d.results) >= d.maxKeys {
		d.evictOldest()
	}
	d.results[key] = ""
	d.order = append(d.order, key)
	return "", false
}

func (d *keyDeduper) Complete(_ context.Context, key, result string) {
	key = normalize(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.results[key]; ok {
		d.results[key] = result
	}
}

func (d *keyDeduper) Release(_ context.Context, key string) {
	key = normalize(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.results[key]; !ok {
		return
	}
	delete(d.results, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// evictOldest drops the oldest completed key. Keys still in flight are kept,
// so the set may briefly exceed maxKeys. Must be called with d.mu held.
func (d *keyDeduper) evictOldest() {
	for i, k := range d.order {
		if d.results[k] == "" {
			continue
		}
		delete(d.results, k)
		d.order = append(d.order[:i], d.order[i+1:]...)
		return
	}
}

func (d *keyDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.results)
}
