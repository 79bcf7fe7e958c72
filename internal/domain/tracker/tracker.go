// Package tracker counts spawn attempts and the items they produced for the
// lifetime of the process.
package tracker

import (
	"sync/atomic"

	"github.com/okian/dropforge/pkg/metrics"
)

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Spawns      int64
	Items       int64
	TieredItems int64
	CustomItems int64
}

// ItemRate is the fraction of spawns that produced any item.
func (s Snapshot) ItemRate() float64 {
	if s.Spawns == 0 {
		return 0
	}
	return float64(s.Items) / float64(s.Spawns)
}

// Tracker is safe for concurrent use.
type Tracker struct {
	spawns      atomic.Int64
	items       atomic.Int64
	tieredItems atomic.Int64
	customItems atomic.Int64
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Spawn records one drop attempt.
func (t *Tracker) Spawn() {
	t.spawns.Add(1)
}

// Dropped records an item of the given kind reaching the world.
func (t *Tracker) Dropped(kind string) {
	t.items.Add(1)
	switch kind {
	case metrics.KindTier:
		t.tieredItems.Add(1)
	case metrics.KindCustomItem:
		t.customItems.Add(1)
	}
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Spawns:      t.spawns.Load(),
		Items:       t.items.Load(),
		TieredItems: t.tieredItems.Load(),
		CustomItems: t.customItems.Load(),
	}
}

// Reset zeroes every counter.
func (t *Tracker) Reset() {
	t.spawns.Store(0)
	t.items.Store(0)
	t.tieredItems.Store(0)
	t.customItems.Store(0)
}
