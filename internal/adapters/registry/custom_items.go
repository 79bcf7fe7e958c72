package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/metrics"
)

type customItemDef struct {
	DisplayName     string         `yaml:"display_name" validate:"required"`
	Material        string         `yaml:"material" validate:"required"`
	Lore            []string       `yaml:"lore"`
	Enchantments    map[string]int `yaml:"enchantments" validate:"dive,keys,required,endkeys,min=1"`
	Durability      *int           `yaml:"durability" validate:"omitnil,gte=0"`
	BroadcastOnFind bool           `yaml:"broadcast_on_find"`
	Chance          float64        `yaml:"chance" validate:"gte=0"`
	DropChance      float64        `yaml:"drop_chance" validate:"min=0,max=1"`
	Unbreakable     bool           `yaml:"unbreakable"`
}

type customItemFile struct {
	CustomItems map[string]customItemDef `yaml:"custom_items"`
}

func (d customItemDef) toModel(name string) *model.CustomItem {
	c := &model.CustomItem{
		Name:            name,
		DisplayName:     d.DisplayName,
		Material:        item.ParseMaterial(d.Material),
		Lore:            d.Lore,
		Enchantments:    d.Enchantments,
		BroadcastOnFind: d.BroadcastOnFind,
		Chance:          d.Chance,
		DropChance:      d.DropChance,
		Unbreakable:     d.Unbreakable,
	}
	if d.Durability != nil {
		c.Durability = *d.Durability
		c.HasDurability = true
	}
	return c
}

// CustomItems is an immutable, name-ordered set of custom items.
type CustomItems struct {
	all    []*model.CustomItem
	byName map[string]*model.CustomItem
}

// NewCustomItems builds a registry from already constructed definitions.
func NewCustomItems(items ...*model.CustomItem) *CustomItems {
	r := &CustomItems{byName: make(map[string]*model.CustomItem, len(items))}
	for _, c := range items {
		r.all = append(r.all, c)
		r.byName[c.Name] = c
	}
	return r
}

// All returns every custom item.
func (r *CustomItems) All() []*model.CustomItem {
	return r.all
}

// ByName returns the custom item with the given name.
func (r *CustomItems) ByName(name string) (*model.CustomItem, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Len returns the number of custom items.
func (r *CustomItems) Len() int {
	return len(r.all)
}

// LoadCustomItems reads custom item definitions from a YAML file or a
// directory of them.
func LoadCustomItems(ctx context.Context, path string) (*CustomItems, error) {
	files, err := readAll(ctx, path, func(raw []byte) (customItemFile, error) {
		var f customItemFile
		return f, decodeYAML(raw, &f)
	})
	if err != nil {
		return nil, err
	}

	v := newValidator()
	defs := make(map[string]customItemDef)
	for _, f := range files {
		for name, def := range f.CustomItems {
			if _, dup := defs[name]; dup {
				return nil, fmt.Errorf("%w: duplicate custom item %q", ErrInvalidDefinition, name)
			}
			if err := v.Struct(def); err != nil {
				return nil, describe("custom item "+name, err)
			}
			if item.ParseMaterial(def.Material).IsAir() {
				return nil, fmt.Errorf("%w: custom item %s: material is air", ErrInvalidDefinition, name)
			}
			defs[name] = def
		}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]*model.CustomItem, 0, len(names))
	for _, name := range names {
		items = append(items, defs[name].toModel(name))
	}

	metrics.UpdateDefinitionsLoaded(metrics.KindCustomItem, len(items))
	return NewCustomItems(items...), nil
}
