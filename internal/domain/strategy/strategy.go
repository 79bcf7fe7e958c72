// Package strategy proposes drop candidates for a death. Strategies are
// looked up by id from a Registry and share a Generator that builds the
// concrete items.
package strategy

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/dropforge/internal/domain/model"
)

// Strategy ids shipped with the engine.
const (
	SingleID   = "single"
	MultipleID = "multiple"
)

// DropStrategy produces candidate drops for a death event.
type DropStrategy interface {
	Name() string
	Drops(ctx context.Context, event *model.DeathEvent) []model.DropCandidate
}

// TierSource lists loaded tiers.
type TierSource interface {
	All() []*model.Tier
}

// CustomItemSource lists loaded custom items.
type CustomItemSource interface {
	All() []*model.CustomItem
}

// Chances configures how often strategies produce items.
type Chances struct {
	Item   float64
	Tiered float64
	Custom float64

	// EntityMultipliers scale Item per entity type. Missing types use 1.
	EntityMultipliers map[string]float64
	// EntityTiers restricts the tiers an entity type can drop, by tier name
	// or display name. Missing types can drop any tier.
	EntityTiers map[string][]string
}

// ItemChance returns the base item chance for an entity type.
func (c Chances) ItemChance(entityType string) float64 {
	if m, ok := c.EntityMultipliers[strings.ToUpper(entityType)]; ok {
		return c.Item * m
	}
	return c.Item
}

// Registry maps strategy ids to strategies. Ids are case-insensitive.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]DropStrategy
}

// NewRegistry creates a registry holding the given strategies.
func NewRegistry(strategies ...DropStrategy) *Registry {
	r := &Registry{strategies: make(map[string]DropStrategy, len(strategies))}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a strategy under its name.
func (r *Registry) Register(s DropStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strings.ToLower(s.Name())] = s
}

// ByID returns the strategy registered under id.
func (r *Registry) ByID(id string) (DropStrategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[strings.ToLower(strings.TrimSpace(id))]
	return s, ok
}

// NewDefaultRegistry registers the single and multiple strategies over one
// generator.
func NewDefaultRegistry(gen *Generator, chances Chances) *Registry {
	return NewRegistry(NewSingle(gen, chances), NewMultiple(gen, chances))
}
