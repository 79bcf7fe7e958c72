// Package identity decides whether an item is a known custom item or belongs
// to a tier. Identity tags are authoritative; on old hosts a display-based
// fallback recognises items dropped before tags existed.
package identity

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/host"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

const defaultCacheSize = 512

// Resolver classifies items against candidate definitions. It is safe for
// concurrent use.
type Resolver struct {
	tags         item.MetadataStore
	enchantments item.EnchantmentRegistry
	caps         host.Capabilities
	cacheSize    int
	materialized *lru.Cache[string, *item.Item]
	logger       logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCacheSize bounds the number of materialized custom items kept for the
// display-based comparison.
func WithCacheSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.cacheSize = n
		}
	}
}

// New creates a Resolver for a host.
func New(tags item.MetadataStore, enchantments item.EnchantmentRegistry, caps host.Capabilities, opts ...Option) *Resolver {
	r := &Resolver{
		tags:         tags,
		enchantments: enchantments,
		caps:         caps,
		cacheSize:    defaultCacheSize,
		logger:       logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tags == nil {
		r.tags = item.NoTags{}
	}
	// only fails for non-positive sizes
	r.materialized, _ = lru.New[string, *item.Item](r.cacheSize)
	return r
}

// ResolveCustomItem returns the custom item it represents, if any.
func (r *Resolver) ResolveCustomItem(ctx context.Context, it *item.Item, candidates []*model.CustomItem, disableLegacyCheck bool) (*model.CustomItem, bool) {
	if it == nil || len(candidates) == 0 {
		return nil, false
	}

	if name, ok := r.tags.Tag(it, item.KeyCustomItem); ok {
		for _, c := range candidates {
			if c.Name == name {
				metrics.RecordResolution(metrics.KindCustomItem, metrics.PathMetadata)
				return c, true
			}
		}
		r.logger.Debug(ctx, "custom item tag names no loaded definition", logger.String("name", name))
	}

	if r.caps.LegacyChecksAllowed(disableLegacyCheck) {
		for _, c := range candidates {
			if r.materialize(c).IsSimilar(it) {
				metrics.RecordResolution(metrics.KindCustomItem, metrics.PathLegacy)
				return c, true
			}
		}
	}

	metrics.RecordResolution(metrics.KindCustomItem, metrics.PathMiss)
	return nil, false
}

// ResolveTier returns the tier the item belongs to, if any.
func (r *Resolver) ResolveTier(ctx context.Context, it *item.Item, candidates []*model.Tier, disableLegacyCheck bool) (*model.Tier, bool) {
	if it == nil || len(candidates) == 0 {
		return nil, false
	}

	if name, ok := r.tags.Tag(it, item.KeyTier); ok {
		for _, t := range candidates {
			if t.Name == name {
				metrics.RecordResolution(metrics.KindTier, metrics.PathMetadata)
				return t, true
			}
		}
		r.logger.Debug(ctx, "tier tag names no loaded definition", logger.String("name", name))
	}

	if r.caps.LegacyChecksAllowed(disableLegacyCheck) {
		if t, ok := tierByColors(it.DisplayName, candidates); ok {
			metrics.RecordResolution(metrics.KindTier, metrics.PathLegacy)
			return t, true
		}
	}

	metrics.RecordResolution(metrics.KindTier, metrics.PathMiss)
	return nil, false
}

// tierByColors matches the first color code and the trailing color of a
// display name against each tier's display and identifier colors.
func tierByColors(displayName string, candidates []*model.Tier) (*model.Tier, bool) {
	if displayName == "" {
		return nil, false
	}
	first, ok := chatcolor.FirstColor(displayName)
	if !ok {
		return nil, false
	}
	last, ok := chatcolor.LastColor(displayName)
	if !ok || first == last {
		return nil, false
	}
	for _, t := range candidates {
		if t.DisplayColor == first && t.IdentifierColor == last {
			return t, true
		}
	}
	return nil, false
}

func (r *Resolver) materialize(c *model.CustomItem) *item.Item {
	if it, ok := r.materialized.Get(c.Name); ok {
		return it
	}
	it := c.Materialize(r.enchantments, nil)
	r.materialized.Add(c.Name, it)
	return it
}
