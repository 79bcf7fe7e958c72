package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/metrics"
)

type durabilityDef struct {
	Minimum float64 `yaml:"minimum" validate:"min=0,max=100,ltefield=Maximum"`
	Maximum float64 `yaml:"maximum" validate:"min=0,max=100"`
}

type tierDef struct {
	DisplayName      string             `yaml:"display_name" validate:"required"`
	DisplayColor     string             `yaml:"display_color" validate:"required,chatcolor"`
	IdentifierColor  string             `yaml:"identifier_color" validate:"required,chatcolor"`
	Durability       durabilityDef      `yaml:"durability"`
	BroadcastOnFind  bool               `yaml:"broadcast_on_find"`
	SpawnChances     map[string]float64 `yaml:"spawn_chances" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
	DropChance       float64            `yaml:"drop_chance" validate:"min=0,max=1"`
	AllowedMaterials []string           `yaml:"allowed_materials" validate:"required,min=1,dive,required"`
	Lore             []string           `yaml:"lore"`
	BaseEnchantments map[string]int     `yaml:"base_enchantments" validate:"dive,keys,required,endkeys,min=1"`
}

type tierFile struct {
	Tiers map[string]tierDef `yaml:"tiers"`
}

func (d tierDef) toModel(name string) *model.Tier {
	display, _ := chatcolor.Parse(d.DisplayColor)
	identifier, _ := chatcolor.Parse(d.IdentifierColor)
	materials := make([]item.Material, 0, len(d.AllowedMaterials))
	for _, m := range d.AllowedMaterials {
		materials = append(materials, item.ParseMaterial(m))
	}
	return &model.Tier{
		Name:                    name,
		DisplayName:             d.DisplayName,
		DisplayColor:            display,
		IdentifierColor:         identifier,
		MinDurabilityPercentage: d.Durability.Minimum,
		MaxDurabilityPercentage: d.Durability.Maximum,
		BroadcastOnFind:         d.BroadcastOnFind,
		WorldSpawnChances:       d.SpawnChances,
		DropChance:              d.DropChance,
		AllowedMaterials:        materials,
		Lore:                    d.Lore,
		BaseEnchantments:        d.BaseEnchantments,
	}
}

// Tiers is an immutable, name-ordered set of tiers.
type Tiers struct {
	all    []*model.Tier
	byName map[string]*model.Tier
}

// NewTiers builds a registry from already constructed tiers.
func NewTiers(tiers ...*model.Tier) *Tiers {
	r := &Tiers{byName: make(map[string]*model.Tier, len(tiers))}
	for _, t := range tiers {
		r.all = append(r.all, t)
		r.byName[t.Name] = t
	}
	return r
}

// All returns every tier.
func (r *Tiers) All() []*model.Tier {
	return r.all
}

// ByName returns the tier with the given name.
func (r *Tiers) ByName(name string) (*model.Tier, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Len returns the number of tiers.
func (r *Tiers) Len() int {
	return len(r.all)
}

// LoadTiers reads tier definitions from a YAML file or a directory of them.
func LoadTiers(ctx context.Context, path string) (*Tiers, error) {
	files, err := readAll(ctx, path, func(raw []byte) (tierFile, error) {
		var f tierFile
		return f, decodeYAML(raw, &f)
	})
	if err != nil {
		return nil, err
	}

	v := newValidator()
	defs := make(map[string]tierDef)
	for _, f := range files {
		for name, def := range f.Tiers {
			if _, dup := defs[name]; dup {
				return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidDefinition, name)
			}
			if err := v.Struct(def); err != nil {
				return nil, describe("tier "+name, err)
			}
			defs[name] = def
		}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	tiers := make([]*model.Tier, 0, len(names))
	for _, name := range names {
		tiers = append(tiers, defs[name].toModel(name))
	}

	metrics.UpdateDefinitionsLoaded(metrics.KindTier, len(tiers))
	return NewTiers(tiers...), nil
}
