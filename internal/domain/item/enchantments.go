package item

import (
	"strings"
)

// EnchantmentRegistry resolves configured enchantment names to the host's
// canonical keys.
type EnchantmentRegistry interface {
	Resolve(name string) (string, bool)
}

var vanillaEnchantments = []string{
	"protection", "fire_protection", "feather_falling", "blast_protection",
	"projectile_protection", "respiration", "aqua_affinity", "thorns",
	"depth_strider", "frost_walker", "binding_curse", "soul_speed",
	"sharpness", "smite", "bane_of_arthropods", "knockback", "fire_aspect",
	"looting", "sweeping", "efficiency", "silk_touch", "unbreaking",
	"fortune", "power", "punch", "flame", "infinity", "luck_of_the_sea",
	"lure", "loyalty", "impaling", "riptide", "channeling", "multishot",
	"quick_charge", "piercing", "mending", "vanishing_curse",
}

// Enchantments is a name-to-key registry seeded with the vanilla set and
// extended with custom aliases.
type Enchantments struct {
	keys map[string]string
}

// NewEnchantments builds a registry. Aliases map extra names (including
// custom enchantments) to keys, e.g. "lifesteal" -> "dropforge:lifesteal".
func NewEnchantments(aliases map[string]string) *Enchantments {
	r := &Enchantments{keys: make(map[string]string, len(vanillaEnchantments)+len(aliases))}
	for _, name := range vanillaEnchantments {
		r.keys[name] = "minecraft:" + name
	}
	for alias, key := range aliases {
		r.keys[normalizeEnchantment(alias)] = key
	}
	return r
}

// Resolve accepts bare names in any case ("Fire Aspect", "FIRE_ASPECT") and
// already-namespaced keys.
func (r *Enchantments) Resolve(name string) (string, bool) {
	n := normalizeEnchantment(name)
	if key, ok := r.keys[n]; ok {
		return key, true
	}
	for _, key := range r.keys {
		if key == n {
			return key, true
		}
	}
	return "", false
}

func normalizeEnchantment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
