// Package dispatch reacts to creature deaths: it filters events, then either
// identifies and stamps the equipment already in the drop list or asks the
// configured strategy for new drops.
package dispatch

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/internal/domain/strategy"
	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

// Reasons an event is ignored.
const (
	ReasonNoEntity        = "no_entity"
	ReasonPlayer          = "player"
	ReasonNoDamageCause   = "no_damage_cause"
	ReasonCancelled       = "damage_cancelled"
	ReasonWorldDisabled   = "world_disabled"
	ReasonNoPlayerKill    = "no_player_kill"
	ReasonUnknownStrategy = "unknown_strategy"
)

// Modes report which path handled an event.
const (
	ModeEquipment = "equipment"
	ModeStrategy  = "strategy"
)

// Resolver identifies items against loaded definitions.
type Resolver interface {
	ResolveCustomItem(ctx context.Context, it *item.Item, candidates []*model.CustomItem, disableLegacyCheck bool) (*model.CustomItem, bool)
	ResolveTier(ctx context.Context, it *item.Item, candidates []*model.Tier, disableLegacyCheck bool) (*model.Tier, bool)
}

// StrategyLookup finds strategies by id.
type StrategyLookup interface {
	ByID(id string) (strategy.DropStrategy, bool)
}

// Broadcaster announces a found item. Recipient may be nil when nobody
// killed the entity.
type Broadcaster interface {
	Broadcast(ctx context.Context, lang model.LanguageSettings, recipient *model.Player, it *item.Item)
}

// Tracker counts spawn attempts and drops.
type Tracker interface {
	Spawn()
	Dropped(kind string)
}

// Settings are the options that steer dispatching.
type Settings struct {
	DisplayMobEquipment       bool
	DisableLegacyItemChecks   bool
	RequirePlayerKillForDrops bool
	EnabledWorlds             []string
	Strategy                  string
	Language                  model.LanguageSettings
}

// Outcome summarises how an event was handled.
type Outcome struct {
	Filtered  string
	Mode      string
	Stamped   int
	Dropped   int
	Broadcast int
}

// Dispatcher is not safe for concurrent use; events are handled one at a
// time by the reactor.
type Dispatcher struct {
	settings    Settings
	worlds      map[string]struct{}
	resolver    Resolver
	tiers       strategy.TierSource
	customItems strategy.CustomItemSource
	strategies  StrategyLookup
	tags        item.MetadataStore
	broadcaster Broadcaster
	tracker     Tracker
	rng         *rand.Rand
	damageable  bool
	logger      logger.Logger
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRand sets the source for drop rolls and durability.
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) {
		if rng != nil {
			d.rng = rng
		}
	}
}

// WithTagStore sets where the already-broadcast flag is kept.
func WithTagStore(s item.MetadataStore) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.tags = s
		}
	}
}

// WithBroadcaster sets the sink for found-item announcements.
func WithBroadcaster(b Broadcaster) Option {
	return func(d *Dispatcher) {
		if b != nil {
			d.broadcaster = b
		}
	}
}

// WithTracker sets the spawn tracker.
func WithTracker(t Tracker) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracker = t
		}
	}
}

// WithDamageable controls whether equipment durability is stamped. Hosts
// without damageable item metadata leave damage untouched.
func WithDamageable(enabled bool) Option {
	return func(d *Dispatcher) {
		d.damageable = enabled
	}
}

// New creates a Dispatcher.
func New(settings Settings, resolver Resolver, tiers strategy.TierSource, customItems strategy.CustomItemSource, strategies StrategyLookup, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		settings:    settings,
		worlds:      make(map[string]struct{}, len(settings.EnabledWorlds)),
		resolver:    resolver,
		tiers:       tiers,
		customItems: customItems,
		strategies:  strategies,
		tags:        item.NewTagStore(true),
		broadcaster: nopBroadcaster{},
		tracker:     nopTracker{},
		damageable:  true,
		logger:      logger.NewDiscard(),
	}
	for _, w := range settings.EnabledWorlds {
		d.worlds[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // loot rolls are not security sensitive
	}
	return d
}

// Handle processes one death event, mutating its drop list in place.
func (d *Dispatcher) Handle(ctx context.Context, event *model.DeathEvent) Outcome {
	start := time.Now()
	defer func() {
		metrics.RecordDispatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()
	metrics.RecordDeathEvent()

	if reason := d.filter(event); reason != "" {
		d.logger.Debug(ctx, "death event ignored",
			logger.String("event_id", eventID(event)),
			logger.String("reason", reason),
		)
		metrics.RecordEventFiltered(reason)
		return Outcome{Filtered: reason}
	}

	if d.settings.DisplayMobEquipment {
		return d.handleEquipment(ctx, event)
	}
	return d.handleStrategy(ctx, event)
}

func (d *Dispatcher) filter(event *model.DeathEvent) string {
	switch {
	case event == nil || event.Entity == nil:
		return ReasonNoEntity
	case event.Entity.Player:
		return ReasonPlayer
	case event.Entity.LastDamageCause == nil:
		return ReasonNoDamageCause
	case event.Entity.LastDamageCause.Cancelled:
		return ReasonCancelled
	case !d.worldEnabled(event.Entity.World):
		return ReasonWorldDisabled
	case d.settings.RequirePlayerKillForDrops && !d.settings.DisplayMobEquipment && event.Killer == nil:
		return ReasonNoPlayerKill
	}
	return ""
}

func (d *Dispatcher) worldEnabled(world string) bool {
	_, ok := d.worlds[world]
	return ok
}

// handleEquipment stamps items the entity was carrying. A custom item match
// takes precedence so each entry is stamped once.
func (d *Dispatcher) handleEquipment(ctx context.Context, event *model.DeathEvent) Outcome {
	out := Outcome{Mode: ModeEquipment}
	disableLegacy := d.settings.DisableLegacyItemChecks
	customItems := d.customItems.All()
	tiers := d.tiers.All()

	for idx, it := range event.Drops {
		if it.IsEmpty() {
			continue
		}
		alreadyBroadcast, _ := d.tags.BoolTag(it, item.KeyAlreadyBroadcast)

		var (
			kind      string
			broadcast bool
			stamped   *item.Item
		)
		if c, ok := d.resolver.ResolveCustomItem(ctx, it, customItems, disableLegacy); ok {
			kind, broadcast = metrics.KindCustomItem, c.BroadcastOnFind
			damage := 0
			if c.HasDurability {
				damage = c.Durability
			}
			stamped = d.stamp(it, damage)
		} else if t, ok := d.resolver.ResolveTier(ctx, it, tiers, disableLegacy); ok {
			kind, broadcast = metrics.KindTier, t.BroadcastOnFind
			stamped = d.stamp(it, item.DamageForDurabilityRange(d.rng, it.Material, t.MinDurabilityPercentage, t.MaxDurabilityPercentage))
		} else {
			continue
		}

		event.Drops[idx] = stamped
		out.Stamped++
		metrics.RecordEquipmentStamped(kind)

		if broadcast && event.Killer != nil && !alreadyBroadcast {
			d.broadcaster.Broadcast(ctx, d.settings.Language, event.Killer, it)
			metrics.RecordBroadcast(kind)
			out.Broadcast++
		}
	}

	d.logger.Debug(ctx, "equipment handled",
		logger.String("event_id", event.ID),
		logger.Int("stamped", out.Stamped),
		logger.Int("broadcast", out.Broadcast),
	)
	return out
}

func (d *Dispatcher) stamp(it *item.Item, damage int) *item.Item {
	c := it.Clone()
	if d.damageable {
		c.Damage = damage
	}
	d.tags.SetBoolTag(c, item.KeyAlreadyBroadcast, true)
	return c
}

func (d *Dispatcher) handleStrategy(ctx context.Context, event *model.DeathEvent) Outcome {
	s, ok := d.strategies.ByID(d.settings.Strategy)
	if !ok {
		d.logger.Warn(ctx, "unknown drop strategy", logger.String("strategy", d.settings.Strategy))
		metrics.RecordEventFiltered(ReasonUnknownStrategy)
		return Outcome{Filtered: ReasonUnknownStrategy}
	}

	out := Outcome{Mode: ModeStrategy}
	disableLegacy := d.settings.DisableLegacyItemChecks
	d.tracker.Spawn()

	for _, candidate := range s.Drops(ctx, event) {
		it := candidate.Item
		kind, broadcast := d.classify(ctx, it, disableLegacy)

		if it.IsEmpty() || d.rng.Float64() > candidate.Probability {
			continue
		}
		event.AddDrop(it)
		d.tracker.Dropped(kind)
		metrics.RecordDrop(kind)
		out.Dropped++

		// without a killer there is no recipient, so the item stays eligible
		if !broadcast || event.Killer == nil {
			continue
		}
		if already, _ := d.tags.BoolTag(it, item.KeyAlreadyBroadcast); already {
			continue
		}
		d.broadcaster.Broadcast(ctx, d.settings.Language, event.Killer, it)
		d.tags.SetBoolTag(it, item.KeyAlreadyBroadcast, true)
		metrics.RecordBroadcast(kind)
		out.Broadcast++
	}

	d.logger.Debug(ctx, "strategy drops handled",
		logger.String("event_id", event.ID),
		logger.String("strategy", s.Name()),
		logger.Int("dropped", out.Dropped),
		logger.Int("broadcast", out.Broadcast),
	)
	return out
}

// classify resolves both identities independently; the tier's broadcast
// flag wins when both match.
func (d *Dispatcher) classify(ctx context.Context, it *item.Item, disableLegacy bool) (string, bool) {
	t, isTier := d.resolver.ResolveTier(ctx, it, d.tiers.All(), disableLegacy)
	c, isCustom := d.resolver.ResolveCustomItem(ctx, it, d.customItems.All(), disableLegacy)
	switch {
	case isTier:
		return metrics.KindTier, t.BroadcastOnFind
	case isCustom:
		return metrics.KindCustomItem, c.BroadcastOnFind
	}
	return metrics.KindOther, false
}

func eventID(event *model.DeathEvent) string {
	if event == nil {
		return ""
	}
	return event.ID
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(context.Context, model.LanguageSettings, *model.Player, *item.Item) {}

type nopTracker struct{}

func (nopTracker) Spawn()         {}
func (nopTracker) Dropped(string) {}
