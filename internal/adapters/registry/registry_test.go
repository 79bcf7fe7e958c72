package registry_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/dropforge/internal/adapters/registry"
	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
)

const tiersYAML = `
tiers:
  rare:
    display_name: Rare
    display_color: green
    identifier_color: "&b"
    durability:
      minimum: 40
      maximum: 80
    broadcast_on_find: true
    spawn_chances:
      default: 2
      world_nether: 0.5
    drop_chance: 0.25
    allowed_materials: [iron sword, DIAMOND_AXE]
    lore:
      - "&7Power %rand 1-3%"
    base_enchantments:
      sharpness: 2
  common:
    display_name: Common
    display_color: WHITE
    identifier_color: GRAY
    durability:
      minimum: 100
      maximum: 100
    spawn_chances:
      default: 10
    drop_chance: 1
    allowed_materials: [WOODEN_SWORD]
`

const customItemsYAML = `
custom_items:
  excalibur:
    display_name: "&6Excalibur"
    material: diamond_sword
    lore: ["&7Pulled from stone"]
    enchantments:
      sharpness: 5
    durability: 12
    broadcast_on_find: true
    chance: 1
    drop_chance: 0.1
    unbreakable: true
  stick:
    display_name: Stick
    material: STICK
    chance: 3
    drop_chance: 1
`

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadTiers(t *testing.T) {
	path := write(t, t.TempDir(), "tiers.yml", tiersYAML)

	tiers, err := registry.LoadTiers(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, tiers.Len())

	// name order
	assert.Equal(t, "common", tiers.All()[0].Name)

	rare, ok := tiers.ByName("rare")
	require.True(t, ok)
	assert.Equal(t, chatcolor.Green, rare.DisplayColor)
	assert.Equal(t, chatcolor.Aqua, rare.IdentifierColor)
	assert.Equal(t, 40.0, rare.MinDurabilityPercentage)
	assert.Equal(t, 80.0, rare.MaxDurabilityPercentage)
	assert.True(t, rare.BroadcastOnFind)
	assert.Equal(t, []item.Material{"IRON_SWORD", "DIAMOND_AXE"}, rare.AllowedMaterials)
	assert.Equal(t, map[string]int{"sharpness": 2}, rare.BaseEnchantments)
	w, _ := rare.SpawnChance("world")
	assert.Equal(t, 2.0, w)
}

func TestLoadCustomItems(t *testing.T) {
	path := write(t, t.TempDir(), "custom.yaml", customItemsYAML)

	items, err := registry.LoadCustomItems(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, items.Len())

	ex, ok := items.ByName("excalibur")
	require.True(t, ok)
	assert.Equal(t, item.Material("DIAMOND_SWORD"), ex.Material)
	assert.True(t, ex.HasDurability)
	assert.Equal(t, 12, ex.Durability)
	assert.True(t, ex.Unbreakable)

	stick, _ := items.ByName("stick")
	assert.False(t, stick.HasDurability)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yml", "tiers:\n  one:\n    display_name: One\n    display_color: RED\n    identifier_color: BLUE\n    spawn_chances: {default: 1}\n    allowed_materials: [BOW]\n")
	write(t, dir, "b.yaml", "tiers:\n  two:\n    display_name: Two\n    display_color: RED\n    identifier_color: GOLD\n    spawn_chances: {default: 1}\n    allowed_materials: [BOW]\n")
	write(t, dir, "notes.txt", "ignored")

	tiers, err := registry.LoadTiers(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, tiers.Len())

	write(t, dir, "c.yml", "tiers:\n  one:\n    display_name: Again\n    display_color: RED\n    identifier_color: BLUE\n    spawn_chances: {default: 1}\n    allowed_materials: [BOW]\n")
	_, err = registry.LoadTiers(context.Background(), dir)
	assert.ErrorIs(t, err, registry.ErrInvalidDefinition)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "format code as color",
			body: "tiers:\n  x:\n    display_name: X\n    display_color: BOLD\n    identifier_color: BLUE\n    spawn_chances: {default: 1}\n    allowed_materials: [BOW]\n",
			want: registry.ErrInvalidDefinition,
		},
		{
			name: "durability out of order",
			body: "tiers:\n  x:\n    display_name: X\n    display_color: RED\n    identifier_color: BLUE\n    durability: {minimum: 90, maximum: 10}\n    spawn_chances: {default: 1}\n    allowed_materials: [BOW]\n",
			want: registry.ErrInvalidDefinition,
		},
		{
			name: "no materials",
			body: "tiers:\n  x:\n    display_name: X\n    display_color: RED\n    identifier_color: BLUE\n    spawn_chances: {default: 1}\n",
			want: registry.ErrInvalidDefinition,
		},
		{
			name: "unknown key",
			body: "tiers:\n  x:\n    display_nam: X\n",
			want: registry.ErrLoadDefinitions,
		},
		{
			name: "broken yaml",
			body: "tiers: [",
			want: registry.ErrLoadDefinitions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), "tiers.yml", tt.body)
			_, err := registry.LoadTiers(context.Background(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tiersPath := write(t, dir, "tiers.yml", tiersYAML)
	customPath := write(t, dir, "custom.yml", customItemsYAML)

	defs, err := registry.Load(context.Background(), tiersPath, customPath)
	require.NoError(t, err)
	assert.Equal(t, 2, defs.Tiers.Len())
	assert.Equal(t, 2, defs.CustomItems.Len())

	defs, err = registry.Load(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, defs.Tiers.All())
	assert.Empty(t, defs.CustomItems.All())

	_, err = registry.Load(context.Background(), filepath.Join(dir, "missing.yml"), customPath)
	assert.ErrorIs(t, err, registry.ErrLoadDefinitions)

	bad := write(t, dir, "bad.yml", "custom_items:\n  air:\n    display_name: Nothing\n    material: AIR\n")
	_, err = registry.LoadCustomItems(context.Background(), bad)
	assert.ErrorIs(t, err, registry.ErrInvalidDefinition)
}
