// Package item models the host's item records: material, amount, damage,
// display metadata, enchantments and persistent tags.
package item

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Item is a concrete item record. The zero value is an empty (air) slot.
type Item struct {
	// ID identifies the physical item across clones.
	ID           uuid.UUID
	Material     Material
	Amount       int
	Damage       int
	DisplayName  string
	Lore         []string
	Enchantments map[string]int
	Unbreakable  bool

	tags  map[string]string
	flags map[string]bool
}

// New creates a single item of the given material with a fresh ID.
func New(material Material) *Item {
	return &Item{
		ID:       uuid.New(),
		Material: material,
		Amount:   1,
	}
}

// Clone returns a deep copy that keeps the same ID.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	c.Lore = slices.Clone(it.Lore)
	c.Enchantments = maps.Clone(it.Enchantments)
	c.tags = maps.Clone(it.tags)
	c.flags = maps.Clone(it.flags)
	return &c
}

// IsEmpty reports whether the record is an air placeholder or has no items.
func (it *Item) IsEmpty() bool {
	return it == nil || it.Amount <= 0 || it.Material.IsAir()
}

// HasDisplayName reports whether a custom display name is set.
func (it *Item) HasDisplayName() bool {
	return it != nil && it.DisplayName != ""
}

// Name returns the display name, or the material's readable name.
func (it *Item) Name() string {
	if it.HasDisplayName() {
		return it.DisplayName
	}
	return it.Material.DisplayName()
}

// AddEnchantment sets an enchantment level.
func (it *Item) AddEnchantment(key string, level int) {
	if it.Enchantments == nil {
		it.Enchantments = make(map[string]int)
	}
	it.Enchantments[key] = level
}

// IsSimilar compares everything but amount, damage, ID and persistent tags:
// material, display name, lore, enchantments and the unbreakable flag.
func (it *Item) IsSimilar(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	if it.Material != other.Material ||
		it.DisplayName != other.DisplayName ||
		it.Unbreakable != other.Unbreakable {
		return false
	}
	if !slices.Equal(it.Lore, other.Lore) {
		return false
	}
	if len(it.Enchantments) != len(other.Enchantments) {
		return false
	}
	return maps.Equal(it.Enchantments, other.Enchantments)
}
