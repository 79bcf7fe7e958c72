package strategy

import (
	"context"

	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/metrics"
)

// Single drops at most one item per death: a tiered item if the tiered roll
// succeeds, otherwise a custom item if the custom roll does.
type Single struct {
	gen     *Generator
	chances Chances
}

// NewSingle creates the single strategy.
func NewSingle(gen *Generator, chances Chances) *Single {
	return &Single{gen: gen, chances: chances}
}

// Name implements DropStrategy.
func (s *Single) Name() string { return SingleID }

// Drops implements DropStrategy.
func (s *Single) Drops(ctx context.Context, event *model.DeathEvent) []model.DropCandidate {
	metrics.RecordStrategyInvocation(SingleID)
	if event == nil || event.Entity == nil {
		return nil
	}
	rng := s.gen.Rand()
	if rng.Float64() >= s.chances.ItemChance(event.Entity.Type) {
		metrics.RecordRollFailed()
		return nil
	}
	if rng.Float64() < s.chances.Tiered {
		if c, ok := s.gen.TierCandidate(ctx, event.Entity); ok {
			return []model.DropCandidate{c}
		}
	}
	if rng.Float64() < s.chances.Custom {
		if c, ok := s.gen.CustomItemCandidate(ctx); ok {
			return []model.DropCandidate{c}
		}
	}
	metrics.RecordRollFailed()
	return nil
}
