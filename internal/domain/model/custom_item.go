package model

import (
	"slices"
	"strings"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
)

// CustomItem is a hand-designed item definition.
type CustomItem struct {
	Name         string
	DisplayName  string
	Material     item.Material
	Lore         []string
	Enchantments map[string]int

	// Durability is the fixed damage stamped on drops when HasDurability is set.
	Durability    int
	HasDurability bool

	BroadcastOnFind bool
	Chance          float64
	DropChance      float64
	Unbreakable     bool
}

// Materialize builds the concrete item for the definition. Enchantments the
// registry does not know are skipped. The custom-item tag is written when
// tags is non-nil.
func (c *CustomItem) Materialize(enchantments item.EnchantmentRegistry, tags item.MetadataStore) *item.Item {
	it := item.New(c.Material)
	it.DisplayName = chatcolor.Translate(c.DisplayName)
	for _, l := range c.Lore {
		it.Lore = append(it.Lore, chatcolor.Translate(l))
	}
	it.Unbreakable = c.Unbreakable
	if c.HasDurability {
		it.Damage = c.Durability
	}

	names := make([]string, 0, len(c.Enchantments))
	for name := range c.Enchantments {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if enchantments == nil {
			break
		}
		key, ok := enchantments.Resolve(name)
		if !ok {
			continue
		}
		it.AddEnchantment(key, c.Enchantments[name])
	}

	if tags != nil {
		tags.SetTag(it, item.KeyCustomItem, c.Name)
	}
	return it
}

func equalFold(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
