package item_test

import (
	"math/rand/v2"
	"testing"

	"github.com/okian/dropforge/internal/domain/item"
	. "github.com/smartystreets/goconvey/convey"
)

func TestItem(t *testing.T) {
	Convey("Given an item record", t, func() {
		it := item.New(item.ParseMaterial("diamond sword"))
		it.DisplayName = "§6Blade§e"
		it.Lore = []string{"sharp"}
		it.AddEnchantment("minecraft:sharpness", 3)

		Convey("Then New fills the identity and amount", func() {
			So(it.Material, ShouldEqual, item.Material("DIAMOND_SWORD"))
			So(it.Amount, ShouldEqual, 1)
			So(it.IsEmpty(), ShouldBeFalse)
		})

		Convey("When it is cloned", func() {
			c := it.Clone()
			c.Lore[0] = "blunt"
			c.Enchantments["minecraft:sharpness"] = 5

			Convey("Then the clone shares the ID but not the collections", func() {
				So(c.ID, ShouldEqual, it.ID)
				So(it.Lore[0], ShouldEqual, "sharp")
				So(it.Enchantments["minecraft:sharpness"], ShouldEqual, 3)
			})
		})

		Convey("When compared for similarity", func() {
			other := it.Clone()
			other.Amount = 12
			other.Damage = 40
			item.NewTagStore(true).SetTag(other, item.KeyTier, "rare")

			So(it.IsSimilar(other), ShouldBeTrue)

			other.Lore = append(other.Lore, "extra")
			So(it.IsSimilar(other), ShouldBeFalse)

			renamed := it.Clone()
			renamed.DisplayName = "Blade"
			So(it.IsSimilar(renamed), ShouldBeFalse)

			unbreakable := it.Clone()
			unbreakable.Unbreakable = true
			So(it.IsSimilar(unbreakable), ShouldBeFalse)
		})

		Convey("Then Name falls back to the material name", func() {
			So(it.Name(), ShouldEqual, "§6Blade§e")
			So(item.New("IRON_SWORD").Name(), ShouldEqual, "Iron Sword")
		})
	})

	Convey("Given empty records", t, func() {
		var nilItem *item.Item
		So(nilItem.IsEmpty(), ShouldBeTrue)
		So((&item.Item{Material: "STONE"}).IsEmpty(), ShouldBeTrue)
		So(item.New(item.CaveAir).IsEmpty(), ShouldBeTrue)
		So(nilItem.Clone(), ShouldBeNil)
	})
}

func TestMaterial(t *testing.T) {
	Convey("Given materials", t, func() {
		So(item.Material("IRON_SWORD").MaxDurability(), ShouldEqual, 250)
		So(item.Material("DIAMOND_CHESTPLATE").MaxDurability(), ShouldEqual, 528)
		So(item.Material("LEATHER_BOOTS").MaxDurability(), ShouldEqual, 65)
		So(item.Material("BOW").IsDamageable(), ShouldBeTrue)
		So(item.Material("DIRT").IsDamageable(), ShouldBeFalse)
		So(item.Material("").IsAir(), ShouldBeTrue)
		So(item.Material("NETHERITE_HOE").DisplayName(), ShouldEqual, "Netherite Hoe")
	})
}

func TestDamageForDurabilityRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	Convey("Given an iron sword", t, func() {
		sword := item.Material("IRON_SWORD")

		Convey("When the range is a single percentage", func() {
			Convey("Then the damage is exact", func() {
				for i := 0; i < 1000; i++ {
					So(item.DamageForDurabilityRange(rng, sword, 50, 50), ShouldEqual, 125)
				}
				So(item.DamageForDurabilityRange(rng, sword, 100, 100), ShouldEqual, 0)
				So(item.DamageForDurabilityRange(rng, sword, 0, 0), ShouldEqual, 250)
			})
		})

		Convey("When the range is wide and reversed", func() {
			Convey("Then the damage stays inside the matching bounds", func() {
				for i := 0; i < 500; i++ {
					d := item.DamageForDurabilityRange(rng, sword, 80, 20)
					So(d, ShouldBeBetweenOrEqual, 50, 200)
				}
			})
		})

		Convey("When the percentages are out of range", func() {
			So(item.DamageForDurabilityRange(rng, sword, 150, 120), ShouldEqual, 0)
			So(item.DamageForDurabilityRange(rng, sword, -10, -5), ShouldEqual, 250)
		})
	})

	Convey("Given a material without durability", t, func() {
		So(item.DamageForDurabilityRange(rng, "DIRT", 10, 90), ShouldEqual, 0)
	})
}

func TestTagStore(t *testing.T) {
	Convey("Given a persistent tag store", t, func() {
		store := item.NewTagStore(true)
		it := item.New("IRON_SWORD")

		store.SetTag(it, item.KeyCustomItem, "excalibur")
		store.SetBoolTag(it, item.KeyAlreadyBroadcast, true)

		v, ok := store.Tag(it, item.KeyCustomItem)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "excalibur")

		b, ok := store.BoolTag(it, item.KeyAlreadyBroadcast)
		So(ok, ShouldBeTrue)
		So(b, ShouldBeTrue)

		Convey("Then tags survive cloning", func() {
			v, ok := store.Tag(it.Clone(), item.KeyCustomItem)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "excalibur")
		})

		Convey("Then missing keys and nil items report absence", func() {
			_, ok := store.Tag(it, item.KeyTier)
			So(ok, ShouldBeFalse)
			_, ok = store.Tag(nil, item.KeyTier)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a host without persistent tags", t, func() {
		store := item.NewTagStore(false)
		it := item.New("IRON_SWORD")

		store.SetTag(it, item.KeyTier, "rare")
		store.SetBoolTag(it, item.KeyAlreadyBroadcast, true)

		_, ok := store.Tag(it, item.KeyTier)
		So(ok, ShouldBeFalse)
		_, ok = store.BoolTag(it, item.KeyAlreadyBroadcast)
		So(ok, ShouldBeFalse)
	})
}

func TestEnchantments(t *testing.T) {
	Convey("Given an enchantment registry with aliases", t, func() {
		reg := item.NewEnchantments(map[string]string{"Life Steal": "dropforge:lifesteal"})

		for _, name := range []string{"sharpness", "FIRE_ASPECT", "Fire Aspect", "minecraft:looting"} {
			_, ok := reg.Resolve(name)
			So(ok, ShouldBeTrue)
		}

		key, ok := reg.Resolve("fire-aspect")
		So(ok, ShouldBeTrue)
		So(key, ShouldEqual, "minecraft:fire_aspect")

		key, ok = reg.Resolve("life_steal")
		So(ok, ShouldBeTrue)
		So(key, ShouldEqual, "dropforge:lifesteal")

		_, ok = reg.Resolve("wizardry")
		So(ok, ShouldBeFalse)
	})
}
