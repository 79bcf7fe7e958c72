package broadcast_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/okian/dropforge/internal/adapters/broadcast"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFormat(t *testing.T) {
	Convey("Given a found item", t, func() {
		it := item.New("IRON_SWORD")
		it.DisplayName = "§aRare Iron Sword§b"
		alex := &model.Player{Name: "alex"}

		Convey("Then the default message is used when none is configured", func() {
			msg := broadcast.Format(model.LanguageSettings{}, alex, it)
			So(msg, ShouldEqual, "§6[DropForge] §7alex§a has found a §aRare Iron Sword§b§a!")
		})

		Convey("Then custom messages substitute both placeholders", func() {
			msg := broadcast.Format(model.LanguageSettings{BroadcastMessage: "&e%receiver% -> %item%"}, alex, it)
			So(msg, ShouldEqual, "§ealex -> §aRare Iron Sword§b")
		})

		Convey("Then unnamed items use the material name", func() {
			msg := broadcast.Format(model.LanguageSettings{BroadcastMessage: "%item%"}, alex, item.New("GOLDEN_AXE"))
			So(msg, ShouldEqual, "Golden Axe")
		})
	})
}

func TestLogSink(t *testing.T) {
	ctx := context.Background()

	Convey("Given a log sink", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		sink := broadcast.NewLogSink(broadcast.WithLogger(logger.Get()), broadcast.WithHistory(2))
		alex := &model.Player{Name: "alex"}

		Convey("When items are announced", func() {
			for _, m := range []item.Material{"BOW", "SHIELD", "TRIDENT"} {
				sink.Broadcast(ctx, model.LanguageSettings{BroadcastMessage: "%receiver% found %item%"}, alex, item.New(m))
			}

			Convey("Then only the newest are kept", func() {
				So(sink.History(), ShouldResemble, []string{"alex found Shield", "alex found Trident"})
			})

			Convey("Then the log carries the plain message", func() {
				So(buf.String(), ShouldContainSubstring, "alex found Bow")
				So(buf.String(), ShouldContainSubstring, "receiver=alex")
			})
		})

		Convey("When there is no recipient", func() {
			sink.Broadcast(ctx, model.LanguageSettings{}, nil, item.New("BOW"))
			So(sink.History(), ShouldBeEmpty)
		})
	})
}
