package scenario_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/dropforge/internal/adapters/scenario"
	"github.com/okian/dropforge/internal/domain/item"
)

const sample = `
events:
  - id: zombie-kill
    repeat: 2
    entity:
      type: zombie
      world: world
    killer: alex
    drops:
      - material: iron sword
        display_name: "&aRare Iron Sword&b"
        enchantments: {sharpness: 2}
        tier: rare
        already_broadcast: true
      - material: rotten_flesh
        amount: 0
  - entity:
      type: SKELETON
      world: world_nether
      damage_cause: none
  - entity:
      type: creeper
      world: world
      damage_cause: fall
      cancelled: true
`

func TestDecode(t *testing.T) {
	tags := item.NewTagStore(true)
	events, err := scenario.Decode(strings.NewReader(sample), tags)
	require.NoError(t, err)
	require.Len(t, events, 4)

	first := events[0]
	assert.Equal(t, "zombie-kill-1", first.ID)
	assert.Equal(t, "zombie-kill-2", events[1].ID)
	assert.Equal(t, "ZOMBIE", first.Entity.Type)
	assert.Equal(t, "ENTITY_ATTACK", first.Entity.LastDamageCause.Cause)
	require.NotNil(t, first.Killer)
	assert.Equal(t, "alex", first.Killer.Name)

	require.Len(t, first.Drops, 2)
	sword := first.Drops[0]
	assert.Equal(t, item.Material("IRON_SWORD"), sword.Material)
	assert.Equal(t, "§aRare Iron Sword§b", sword.DisplayName)
	assert.Equal(t, map[string]int{"minecraft:sharpness": 2}, sword.Enchantments)
	tier, ok := tags.Tag(sword, item.KeyTier)
	assert.True(t, ok)
	assert.Equal(t, "rare", tier)
	flag, _ := tags.BoolTag(sword, item.KeyAlreadyBroadcast)
	assert.True(t, flag)
	assert.Equal(t, 0, first.Drops[1].Amount)

	// repeats are independent records
	assert.NotSame(t, first.Drops[0], events[1].Drops[0])

	skeleton := events[2]
	_, err = uuid.Parse(skeleton.ID)
	assert.NoError(t, err)
	assert.Nil(t, skeleton.Entity.LastDamageCause)
	assert.Nil(t, skeleton.Killer)

	creeper := events[3]
	assert.Equal(t, "FALL", creeper.Entity.LastDamageCause.Cause)
	assert.True(t, creeper.Entity.LastDamageCause.Cancelled)
}

func TestDecodeInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"missing type": "events:\n  - entity: {world: world}\n",
		"unknown key":  "events:\n  - entity: {type: ZOMBIE}\n    killr: alex\n",
		"broken":       "events: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := scenario.Decode(strings.NewReader(body), nil)
			assert.True(t, errors.Is(err, scenario.ErrInvalidScenario))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	events, err := scenario.LoadFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	_, err = scenario.LoadFile(filepath.Join(t.TempDir(), "missing.yml"), nil)
	assert.ErrorIs(t, err, scenario.ErrInvalidScenario)
}
