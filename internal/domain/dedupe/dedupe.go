// Package dedupe tracks death event IDs so each event is resolved exactly
// once, even when a host redelivers it.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSize = 50000

// Deduper records seen event IDs.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if
	// not, atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a rejected submission can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// NewInMemoryDeduper creates a deduper. Bounded deduplicators evict the
// least recently seen ID once full.
func NewInMemoryDeduper(opts ...Option) Deduper {
	cfg := &config{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxSize <= 0 {
		return &unbounded{seen: make(map[string]struct{})}
	}
	// only fails for non-positive sizes
	cache, _ := lru.New[string, struct{}](cfg.maxSize)
	return &bounded{seen: cache}
}

type bounded struct {
	seen *lru.Cache[string, struct{}]
}

func (d *bounded) SeenAndRecord(_ context.Context, id string) bool {
	seen, _ := d.seen.ContainsOrAdd(id, struct{}{})
	return seen
}

func (d *bounded) Unrecord(_ context.Context, id string) {
	d.seen.Remove(id)
}

func (d *bounded) Size() int64 {
	return int64(d.seen.Len())
}

type unbounded struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (d *unbounded) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *unbounded) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *unbounded) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
