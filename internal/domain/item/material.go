package item

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Material is an upper-case host material key such as IRON_SWORD.
type Material string

// Air materials.
const (
	Air     Material = "AIR"
	CaveAir Material = "CAVE_AIR"
	VoidAir Material = "VOID_AIR"
)

var maxDurability = buildDurabilityTable()

func buildDurabilityTable() map[Material]int {
	t := map[Material]int{
		"BOW":                      384,
		"CROSSBOW":                 465,
		"TRIDENT":                  250,
		"SHIELD":                   336,
		"ELYTRA":                   432,
		"FISHING_ROD":              64,
		"SHEARS":                   238,
		"FLINT_AND_STEEL":          64,
		"TURTLE_HELMET":            275,
		"CARROT_ON_A_STICK":        25,
		"WARPED_FUNGUS_ON_A_STICK": 100,
	}

	tools := map[string]int{
		"WOODEN":    59,
		"STONE":     131,
		"IRON":      250,
		"GOLDEN":    32,
		"DIAMOND":   1561,
		"NETHERITE": 2031,
	}
	for prefix, d := range tools {
		for _, kind := range []string{"SWORD", "PICKAXE", "AXE", "SHOVEL", "HOE"} {
			t[Material(prefix+"_"+kind)] = d
		}
	}

	// armor durability is a per-slot base times a per-material multiplier
	slots := map[string]int{"HELMET": 11, "CHESTPLATE": 16, "LEGGINGS": 15, "BOOTS": 13}
	armor := map[string]int{
		"LEATHER":   5,
		"CHAINMAIL": 15,
		"IRON":      15,
		"GOLDEN":    7,
		"DIAMOND":   33,
		"NETHERITE": 37,
	}
	for prefix, mult := range armor {
		for slot, base := range slots {
			t[Material(prefix+"_"+slot)] = base * mult
		}
	}
	return t
}

// ParseMaterial normalises "diamond sword" or "Diamond_Sword" to DIAMOND_SWORD.
func ParseMaterial(s string) Material {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return Material(strings.ToUpper(s))
}

// IsAir reports whether the material is an empty slot.
func (m Material) IsAir() bool {
	return m == "" || m == Air || m == CaveAir || m == VoidAir
}

// MaxDurability returns the material's maximum durability, 0 for items that
// cannot be damaged.
func (m Material) MaxDurability() int {
	return maxDurability[m]
}

// IsDamageable reports whether the material has durability.
func (m Material) IsDamageable() bool {
	return m.MaxDurability() > 0
}

// DisplayName renders the key for people: IRON_SWORD -> "Iron Sword".
func (m Material) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(string(m)), "_", " "))
}
