// Package model contains the loot definitions and death events passed
// between layers.
package model

import (
	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
)

// DefaultWorld is the spawn-chance key used when a world has no entry.
const DefaultWorld = "default"

// Tier is a rarity class. Tiered items are recognised by the pair of colors
// wrapped around their display name.
type Tier struct {
	Name            string
	DisplayName     string
	DisplayColor    chatcolor.Code
	IdentifierColor chatcolor.Code

	// Durability left on generated items, as a percentage in 0..100.
	MinDurabilityPercentage float64
	MaxDurabilityPercentage float64

	BroadcastOnFind   bool
	WorldSpawnChances map[string]float64
	DropChance        float64
	AllowedMaterials  []item.Material
	Lore              []string
	BaseEnchantments  map[string]int
}

// SpawnChance returns the tier's selection weight in world, falling back to
// the default entry.
func (t *Tier) SpawnChance(world string) (float64, bool) {
	if w, ok := t.WorldSpawnChances[world]; ok {
		return w, true
	}
	w, ok := t.WorldSpawnChances[DefaultWorld]
	return w, ok
}

// Matches reports whether name refers to the tier by name or display name.
func (t *Tier) Matches(name string) bool {
	return equalFold(t.Name, name) || equalFold(t.DisplayName, name)
}
