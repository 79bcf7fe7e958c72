// Package scenario decodes YAML files describing creature deaths, used to
// replay loot resolution outside a running game host.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
)

// ErrInvalidScenario is returned for unreadable or malformed scenarios.
var ErrInvalidScenario = errors.New("invalid scenario")

// NoDamageCause marks an entity that died without a recorded damage cause.
const NoDamageCause = "none"

const defaultDamageCause = "ENTITY_ATTACK"

type entityDef struct {
	Type        string `yaml:"type"`
	World       string `yaml:"world"`
	Player      bool   `yaml:"player"`
	DamageCause string `yaml:"damage_cause"`
	Cancelled   bool   `yaml:"cancelled"`
}

type dropDef struct {
	Material         string         `yaml:"material"`
	Amount           *int           `yaml:"amount"`
	Damage           int            `yaml:"damage"`
	DisplayName      string         `yaml:"display_name"`
	Lore             []string       `yaml:"lore"`
	Enchantments     map[string]int `yaml:"enchantments"`
	Unbreakable      bool           `yaml:"unbreakable"`
	Tier             string         `yaml:"tier"`
	CustomItem       string         `yaml:"custom_item"`
	AlreadyBroadcast bool           `yaml:"already_broadcast"`
}

type eventDef struct {
	ID     string    `yaml:"id"`
	Repeat int       `yaml:"repeat"`
	Entity entityDef `yaml:"entity"`
	Killer string    `yaml:"killer"`
	Drops  []dropDef `yaml:"drops"`
}

type file struct {
	Events []eventDef `yaml:"events"`
}

// LoadFile decodes the scenario at path.
func LoadFile(path string, tags item.MetadataStore) ([]*model.DeathEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	defer f.Close()
	return Decode(f, tags)
}

// Decode reads death events. Drops listing a tier or custom item get the
// matching identity tag through tags. Events without an id get a random one;
// repeated events get numbered ids.
func Decode(r io.Reader, tags item.MetadataStore) ([]*model.DeathEvent, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if tags == nil {
		tags = item.NewTagStore(true)
	}

	var events []*model.DeathEvent
	for i, def := range f.Events {
		if def.Entity.Type == "" {
			return nil, fmt.Errorf("%w: event %d: entity type is required", ErrInvalidScenario, i)
		}
		id := def.ID
		if id == "" {
			id = uuid.NewString()
		}
		n := max(def.Repeat, 1)
		for k := 0; k < n; k++ {
			e := def.build(tags)
			e.ID = id
			if n > 1 {
				e.ID = fmt.Sprintf("%s-%d", id, k+1)
			}
			events = append(events, e)
		}
	}
	return events, nil
}

func (d eventDef) build(tags item.MetadataStore) *model.DeathEvent {
	e := &model.DeathEvent{
		Entity: &model.Entity{
			ID:     uuid.NewString(),
			Type:   strings.ToUpper(d.Entity.Type),
			Player: d.Entity.Player,
			World:  d.Entity.World,
		},
	}
	switch cause := d.Entity.DamageCause; {
	case strings.EqualFold(cause, NoDamageCause):
	case cause == "":
		e.Entity.LastDamageCause = &model.DamageCause{Cause: defaultDamageCause, Cancelled: d.Entity.Cancelled}
	default:
		e.Entity.LastDamageCause = &model.DamageCause{Cause: strings.ToUpper(cause), Cancelled: d.Entity.Cancelled}
	}
	if d.Killer != "" {
		e.Killer = &model.Player{Name: d.Killer}
	}
	for _, dd := range d.Drops {
		e.AddDrop(dd.build(tags))
	}
	return e
}

func (d dropDef) build(tags item.MetadataStore) *item.Item {
	it := item.New(item.ParseMaterial(d.Material))
	if d.Amount != nil {
		it.Amount = *d.Amount
	}
	it.Damage = d.Damage
	it.DisplayName = chatcolor.Translate(d.DisplayName)
	for _, l := range d.Lore {
		it.Lore = append(it.Lore, chatcolor.Translate(l))
	}
	for key, level := range d.Enchantments {
		if !strings.Contains(key, ":") {
			key = "minecraft:" + strings.ToLower(key)
		}
		it.AddEnchantment(key, level)
	}
	it.Unbreakable = d.Unbreakable
	if d.Tier != "" {
		tags.SetTag(it, item.KeyTier, d.Tier)
	}
	if d.CustomItem != "" {
		tags.SetTag(it, item.KeyCustomItem, d.CustomItem)
	}
	if d.AlreadyBroadcast {
		tags.SetBoolTag(it, item.KeyAlreadyBroadcast, true)
	}
	return it
}
