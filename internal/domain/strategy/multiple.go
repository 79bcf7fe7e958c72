package strategy

import (
	"context"

	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/metrics"
)

// Multiple rolls for a tiered item and a custom item independently, so a
// death can yield none, one or both.
type Multiple struct {
	gen     *Generator
	chances Chances
}

// NewMultiple creates the multiple strategy.
func NewMultiple(gen *Generator, chances Chances) *Multiple {
	return &Multiple{gen: gen, chances: chances}
}

// Name implements DropStrategy.
func (m *Multiple) Name() string { return MultipleID }

// Drops implements DropStrategy.
func (m *Multiple) Drops(ctx context.Context, event *model.DeathEvent) []model.DropCandidate {
	metrics.RecordStrategyInvocation(MultipleID)
	if event == nil || event.Entity == nil {
		return nil
	}
	rng := m.gen.Rand()
	base := m.chances.ItemChance(event.Entity.Type)

	var out []model.DropCandidate
	if rng.Float64() < base*m.chances.Tiered {
		if c, ok := m.gen.TierCandidate(ctx, event.Entity); ok {
			out = append(out, c)
		}
	}
	if rng.Float64() < base*m.chances.Custom {
		if c, ok := m.gen.CustomItemCandidate(ctx); ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		metrics.RecordRollFailed()
	}
	return out
}
