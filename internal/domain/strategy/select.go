package strategy

import (
	"math/rand/v2"
	"strings"

	"github.com/okian/dropforge/internal/domain/model"
)

// TiersForEntity narrows tiers to those allowed for an entity type.
func TiersForEntity(all []*model.Tier, allowed map[string][]string, entityType string) []*model.Tier {
	names, ok := allowed[strings.ToUpper(entityType)]
	if !ok {
		return all
	}
	out := make([]*model.Tier, 0, len(names))
	for _, t := range all {
		for _, n := range names {
			if t.Matches(n) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// PickTier makes a weighted choice using each tier's spawn chance in world.
// Tiers without a weight for the world or the default are skipped. It
// returns nil when the total weight is not positive.
func PickTier(rng *rand.Rand, tiers []*model.Tier, world string) *model.Tier {
	var total float64
	weights := make([]float64, len(tiers))
	for i, t := range tiers {
		w, ok := t.SpawnChance(world)
		if !ok || w <= 0 {
			continue
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return nil
	}
	roll := rng.Float64() * total
	for i, t := range tiers {
		if weights[i] == 0 {
			continue
		}
		roll -= weights[i]
		if roll < 0 {
			return t
		}
	}
	// float drift can leave roll at zero after the last weighted tier
	for i := len(tiers) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return tiers[i]
		}
	}
	return nil
}

// PickCustomItem makes a weighted choice by Chance.
func PickCustomItem(rng *rand.Rand, items []*model.CustomItem) *model.CustomItem {
	var total float64
	for _, c := range items {
		if c.Chance > 0 {
			total += c.Chance
		}
	}
	if total <= 0 {
		return nil
	}
	roll := rng.Float64() * total
	var last *model.CustomItem
	for _, c := range items {
		if c.Chance <= 0 {
			continue
		}
		last = c
		roll -= c.Chance
		if roll < 0 {
			return c
		}
	}
	return last
}
