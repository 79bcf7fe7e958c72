package strategy

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/internal/domain/templating"
	"github.com/okian/dropforge/pkg/logger"
)

// Generator builds concrete items from tier and custom item definitions.
type Generator struct {
	rng          *rand.Rand
	tiers        TierSource
	customItems  CustomItemSource
	templates    *templating.Engine
	enchantments item.EnchantmentRegistry
	tags         item.MetadataStore
	entityTiers  map[string][]string
	logger       logger.Logger
}

// GeneratorOption applies a configuration option to the Generator.
type GeneratorOption func(*Generator)

// WithLogger sets a custom logger for the generator.
func WithLogger(l logger.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTemplates sets the engine used to expand tier lore.
func WithTemplates(e *templating.Engine) GeneratorOption {
	return func(g *Generator) {
		if e != nil {
			g.templates = e
		}
	}
}

// WithEnchantments sets the registry used to resolve enchantment names.
func WithEnchantments(r item.EnchantmentRegistry) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.enchantments = r
		}
	}
}

// WithTagStore sets where identity tags are written.
func WithTagStore(s item.MetadataStore) GeneratorOption {
	return func(g *Generator) {
		if s != nil {
			g.tags = s
		}
	}
}

// WithEntityTiers restricts which tiers each entity type can drop.
func WithEntityTiers(m map[string][]string) GeneratorOption {
	return func(g *Generator) {
		g.entityTiers = m
	}
}

// NewGenerator creates a Generator over the loaded definitions.
func NewGenerator(rng *rand.Rand, tiers TierSource, customItems CustomItemSource, opts ...GeneratorOption) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // loot rolls are not security sensitive
	}
	g := &Generator{
		rng:          rng,
		tiers:        tiers,
		customItems:  customItems,
		enchantments: item.NewEnchantments(nil),
		tags:         item.NewTagStore(true),
		logger:       logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.templates == nil {
		g.templates = templating.New(rng, templating.WithLogger(g.logger))
	}
	return g
}

// Rand exposes the generator's random source to strategies.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// TierCandidate picks a tier for the entity's type and world and builds an
// item from it.
func (g *Generator) TierCandidate(ctx context.Context, entity *model.Entity) (model.DropCandidate, bool) {
	if g.tiers == nil || entity == nil {
		return model.DropCandidate{}, false
	}
	tiers := TiersForEntity(g.tiers.All(), g.entityTiers, entity.Type)
	tier := PickTier(g.rng, tiers, entity.World)
	if tier == nil {
		g.logger.Debug(ctx, "no tier available",
			logger.String("entity", entity.Type),
			logger.String("world", entity.World),
		)
		return model.DropCandidate{}, false
	}
	it := g.TierItem(ctx, tier)
	if it == nil {
		return model.DropCandidate{}, false
	}
	return model.DropCandidate{Item: it, Probability: tier.DropChance}, true
}

// CustomItemCandidate picks a custom item by weight and materializes it.
func (g *Generator) CustomItemCandidate(ctx context.Context) (model.DropCandidate, bool) {
	if g.customItems == nil {
		return model.DropCandidate{}, false
	}
	c := PickCustomItem(g.rng, g.customItems.All())
	if c == nil {
		g.logger.Debug(ctx, "no custom item available")
		return model.DropCandidate{}, false
	}
	return model.DropCandidate{Item: c.Materialize(g.enchantments, g.tags), Probability: c.DropChance}, true
}

// TierItem builds an item of a random allowed material for the tier. It
// returns nil when the tier allows no materials.
func (g *Generator) TierItem(ctx context.Context, tier *model.Tier) *item.Item {
	materials := slices.DeleteFunc(slices.Clone(tier.AllowedMaterials), item.Material.IsAir)
	if len(materials) == 0 {
		g.logger.Warn(ctx, "tier allows no materials", logger.String("tier", tier.Name))
		return nil
	}
	material := materials[g.rng.IntN(len(materials))]

	it := item.New(material)
	it.DisplayName = tier.DisplayColor.String() + chatcolor.Translate(tier.DisplayName) + " " + material.DisplayName() + tier.IdentifierColor.String()
	for _, l := range g.templates.ExpandAll(ctx, tier.Lore) {
		it.Lore = append(it.Lore, chatcolor.Translate(l))
	}
	for name, level := range tier.BaseEnchantments {
		key, ok := g.enchantments.Resolve(name)
		if !ok {
			g.logger.Debug(ctx, "unknown enchantment", logger.String("tier", tier.Name), logger.String("enchantment", name))
			continue
		}
		it.AddEnchantment(key, level)
	}
	it.Damage = item.DamageForDurabilityRange(g.rng, material, tier.MinDurabilityPercentage, tier.MaxDurabilityPercentage)
	g.tags.SetTag(it, item.KeyTier, tier.Name)
	return it
}
