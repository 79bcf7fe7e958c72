package strategy_test

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/internal/domain/strategy"
	. "github.com/smartystreets/goconvey/convey"
)

type tiers []*model.Tier

func (t tiers) All() []*model.Tier { return t }

type customItems []*model.CustomItem

func (c customItems) All() []*model.CustomItem { return c }

func fixtures() (tiers, customItems) {
	rare := &model.Tier{
		Name:                    "rare",
		DisplayName:             "Rare",
		DisplayColor:            chatcolor.Green,
		IdentifierColor:         chatcolor.Aqua,
		MinDurabilityPercentage: 50,
		MaxDurabilityPercentage: 50,
		WorldSpawnChances:       map[string]float64{model.DefaultWorld: 1},
		DropChance:              0.25,
		AllowedMaterials:        []item.Material{"IRON_SWORD"},
		Lore:                    []string{"&7Power %rand 3-3%"},
		BaseEnchantments:        map[string]int{"sharpness": 2},
	}
	excalibur := &model.CustomItem{Name: "excalibur", DisplayName: "&6Excalibur", Material: "DIAMOND_SWORD", Chance: 1, DropChance: 1}
	return tiers{rare}, customItems{excalibur}
}

func newGenerator(seed uint64, opts ...strategy.GeneratorOption) *strategy.Generator {
	ts, cs := fixtures()
	return strategy.NewGenerator(rand.New(rand.NewPCG(seed, seed+1)), ts, cs, opts...)
}

func zombieDeath() *model.DeathEvent {
	return &model.DeathEvent{ID: "e1", Entity: &model.Entity{Type: "ZOMBIE", World: "world"}}
}

func TestRegistry(t *testing.T) {
	Convey("Given the default registry", t, func() {
		reg := strategy.NewDefaultRegistry(newGenerator(1), strategy.Chances{})

		Convey("Then ids resolve case-insensitively", func() {
			s, ok := reg.ByID("SINGLE")
			So(ok, ShouldBeTrue)
			So(s.Name(), ShouldEqual, strategy.SingleID)

			s, ok = reg.ByID(" Multiple ")
			So(ok, ShouldBeTrue)
			So(s.Name(), ShouldEqual, strategy.MultipleID)
		})

		Convey("Then unknown ids are absent", func() {
			_, ok := reg.ByID("legacy")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator", t, func() {
		tags := item.NewTagStore(true)
		gen := newGenerator(5, strategy.WithTagStore(tags))
		ts, _ := fixtures()

		Convey("When a tier item is built", func() {
			it := gen.TierItem(ctx, ts[0])

			Convey("Then the name is wrapped in the tier colors", func() {
				So(it.DisplayName, ShouldEqual, "§aRare Iron Sword§b")
				first, _ := chatcolor.FirstColor(it.DisplayName)
				last, _ := chatcolor.LastColor(it.DisplayName)
				So(first, ShouldEqual, chatcolor.Green)
				So(last, ShouldEqual, chatcolor.Aqua)
			})

			Convey("Then lore is templated and enchantments resolved", func() {
				So(it.Lore, ShouldResemble, []string{"§7Power 3"})
				So(it.Enchantments, ShouldResemble, map[string]int{"minecraft:sharpness": 2})
			})

			Convey("Then durability and the tier tag are stamped", func() {
				So(it.Damage, ShouldEqual, 125)
				name, ok := tags.Tag(it, item.KeyTier)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "rare")
			})
		})

		Convey("When the tier display name carries color codes", func() {
			styled := *ts[0]
			styled.DisplayName = "&lRare"
			it := gen.TierItem(ctx, &styled)

			Convey("Then the codes are translated like custom item names", func() {
				So(it.DisplayName, ShouldEqual, "§a§lRare Iron Sword§b")
				So(chatcolor.Strip(it.DisplayName), ShouldEqual, "Rare Iron Sword")
			})
		})

		Convey("When the tier allows no materials", func() {
			So(gen.TierItem(ctx, &model.Tier{Name: "empty", AllowedMaterials: []item.Material{item.Air}}), ShouldBeNil)
		})

		Convey("Then candidates carry the definition's drop chance", func() {
			c, ok := gen.TierCandidate(ctx, zombieDeath().Entity)
			So(ok, ShouldBeTrue)
			So(c.Probability, ShouldEqual, 0.25)

			c, ok = gen.CustomItemCandidate(ctx)
			So(ok, ShouldBeTrue)
			So(c.Probability, ShouldEqual, 1)
			So(strings.Contains(c.Item.DisplayName, "Excalibur"), ShouldBeTrue)
		})

		Convey("When the entity type is restricted to other tiers", func() {
			restricted := newGenerator(5, strategy.WithEntityTiers(map[string][]string{"ZOMBIE": {"legendary"}}))
			_, ok := restricted.TierCandidate(ctx, zombieDeath().Entity)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPickTier(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	Convey("Given tiers with world weights", t, func() {
		common := &model.Tier{Name: "common", WorldSpawnChances: map[string]float64{model.DefaultWorld: 3}}
		nether := &model.Tier{Name: "nether", WorldSpawnChances: map[string]float64{"world_nether": 1}}
		ts := []*model.Tier{common, nether}

		Convey("Then tiers without a weight for the world are skipped", func() {
			for i := 0; i < 200; i++ {
				So(strategy.PickTier(rng, ts, "world"), ShouldEqual, common)
			}
		})

		Convey("Then both can be picked where both are weighted", func() {
			seen := map[string]int{}
			for i := 0; i < 2000; i++ {
				seen[strategy.PickTier(rng, ts, "world_nether").Name]++
			}
			So(seen["common"], ShouldBeGreaterThan, seen["nether"])
			So(seen["nether"], ShouldBeGreaterThan, 0)
		})

		Convey("Then zero total weight picks nothing", func() {
			So(strategy.PickTier(rng, []*model.Tier{nether}, "world"), ShouldBeNil)
			So(strategy.PickTier(rng, nil, "world"), ShouldBeNil)
		})
	})

	Convey("Given custom items with weights", t, func() {
		a := &model.CustomItem{Name: "a", Chance: 0}
		b := &model.CustomItem{Name: "b", Chance: 2}

		So(strategy.PickCustomItem(rng, []*model.CustomItem{a, b}), ShouldEqual, b)
		So(strategy.PickCustomItem(rng, []*model.CustomItem{a}), ShouldBeNil)
	})

	Convey("Given entity tier restrictions", t, func() {
		rare := &model.Tier{Name: "rare", DisplayName: "Rare Stuff"}
		epic := &model.Tier{Name: "epic"}
		all := []*model.Tier{rare, epic}

		So(strategy.TiersForEntity(all, map[string][]string{"SKELETON": {"rare stuff"}}, "skeleton"), ShouldResemble, []*model.Tier{rare})
		So(strategy.TiersForEntity(all, nil, "ZOMBIE"), ShouldResemble, all)
	})
}

func TestSingle(t *testing.T) {
	ctx := context.Background()

	Convey("Given the single strategy", t, func() {
		Convey("When every chance is certain", func() {
			s := strategy.NewSingle(newGenerator(2), strategy.Chances{Item: 1, Tiered: 1, Custom: 1})

			Convey("Then exactly one tiered candidate is produced", func() {
				for i := 0; i < 100; i++ {
					out := s.Drops(ctx, zombieDeath())
					So(len(out), ShouldEqual, 1)
					So(out[0].Item.Material, ShouldEqual, item.Material("IRON_SWORD"))
				}
			})
		})

		Convey("When the tiered roll always fails", func() {
			s := strategy.NewSingle(newGenerator(2), strategy.Chances{Item: 1, Tiered: 0, Custom: 1})

			Convey("Then the custom item is produced instead", func() {
				out := s.Drops(ctx, zombieDeath())
				So(len(out), ShouldEqual, 1)
				So(out[0].Item.Material, ShouldEqual, item.Material("DIAMOND_SWORD"))
			})
		})

		Convey("When the entity multiplier zeroes the chance", func() {
			s := strategy.NewSingle(newGenerator(2), strategy.Chances{
				Item: 1, Tiered: 1, Custom: 1,
				EntityMultipliers: map[string]float64{"ZOMBIE": 0},
			})

			Convey("Then nothing is produced", func() {
				for i := 0; i < 100; i++ {
					So(s.Drops(ctx, zombieDeath()), ShouldBeEmpty)
				}
			})
		})

		Convey("When the event has no entity", func() {
			s := strategy.NewSingle(newGenerator(2), strategy.Chances{Item: 1, Tiered: 1})
			So(s.Drops(ctx, &model.DeathEvent{}), ShouldBeNil)
		})
	})
}

func TestMultiple(t *testing.T) {
	ctx := context.Background()

	Convey("Given the multiple strategy", t, func() {
		Convey("When every chance is certain", func() {
			m := strategy.NewMultiple(newGenerator(4), strategy.Chances{Item: 1, Tiered: 1, Custom: 1})

			Convey("Then both a tiered and a custom candidate are produced", func() {
				out := m.Drops(ctx, zombieDeath())
				So(len(out), ShouldEqual, 2)
				So(out[0].Item.Material, ShouldEqual, item.Material("IRON_SWORD"))
				So(out[1].Item.Material, ShouldEqual, item.Material("DIAMOND_SWORD"))
			})
		})

		Convey("When the item chance is zero", func() {
			m := strategy.NewMultiple(newGenerator(4), strategy.Chances{Item: 0, Tiered: 1, Custom: 1})
			So(m.Drops(ctx, zombieDeath()), ShouldBeEmpty)
		})
	})
}
