package main

import (
	"context"
	"errors"
	"io/fs"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/dropforge/internal/adapters/broadcast"
	"github.com/okian/dropforge/internal/adapters/registry"
	"github.com/okian/dropforge/internal/adapters/scenario"
	service "github.com/okian/dropforge/internal/app"
	"github.com/okian/dropforge/internal/config"
	"github.com/okian/dropforge/internal/domain/dispatch"
	"github.com/okian/dropforge/internal/domain/host"
	"github.com/okian/dropforge/internal/domain/identity"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/internal/domain/strategy"
	"github.com/okian/dropforge/internal/domain/templating"
	"github.com/okian/dropforge/internal/domain/tracker"
	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

// engine is the wired loot pipeline.
type engine struct {
	caps    host.Capabilities
	defs    registry.Definitions
	tags    item.MetadataStore
	service *service.Service
	tracker *tracker.Tracker
	sink    *broadcast.LogSink
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "dropforge failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	e, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}

	var events []*model.DeathEvent
	if cfg.ScenarioPath != "" {
		if events, err = scenario.LoadFile(cfg.ScenarioPath, e.tags); err != nil {
			return err
		}
	} else {
		log.Info(ctx, "no scenario_path configured; nothing to replay")
	}

	if err := e.service.Start(ctx); err != nil {
		return err
	}
	replay(ctx, e.service, events, log)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.service.Stop(shutdownCtx); err != nil {
		log.Warn(ctx, "service stop", logger.Error(err))
	}

	st := e.service.Stats()
	snap := e.tracker.Snapshot()
	log.Info(ctx, "replay finished",
		logger.Int("handled", int(st.Handled)),
		logger.Int("filtered", int(st.Filtered)),
		logger.Int("duplicates", int(st.Duplicates)),
		logger.Int("dropped", int(st.Dropped)),
		logger.Int("broadcast", int(st.Broadcast)),
		logger.Int("spawns", int(snap.Spawns)),
		logger.Float64("item_rate", snap.ItemRate()),
	)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
		log.Info(ctx, "metrics written", logger.String("path", cfg.MetricsTextfile))
	}
	return nil
}

// build resolves host capabilities, loads definitions and wires the
// dispatcher behind the service.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*engine, error) {
	caps, err := host.Detect(cfg.HostVersion)
	if err != nil {
		return nil, err
	}
	defs, err := registry.Load(ctx, cfg.TiersPath, cfg.CustomItemsPath)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "definitions loaded",
		logger.Int("tiers", defs.Tiers.Len()),
		logger.Int("custom_items", defs.CustomItems.Len()),
		logger.String("host_version", caps.Version.String()),
		logger.Bool("legacy_checks_deprecated", caps.LegacyChecksDeprecated),
	)

	// every consumer of rng runs on the reactor goroutine
	rng := newRand(cfg.RandomSeed)
	tags := item.NewTagStore(caps.SupportsPersistentTags)
	enchantments := item.NewEnchantments(cfg.CustomEnchantments)

	resolver := identity.New(tags, enchantments, caps,
		identity.WithCacheSize(cfg.ResolverCacheSize),
		identity.WithLogger(log.Named("identity")),
	)
	gen := strategy.NewGenerator(rng, defs.Tiers, defs.CustomItems,
		strategy.WithTemplates(templating.New(rng, templating.WithLogger(log.Named("templating")))),
		strategy.WithEnchantments(enchantments),
		strategy.WithTagStore(tags),
		strategy.WithEntityTiers(cfg.EntityTiers),
		strategy.WithLogger(log.Named("strategy")),
	)
	strategies := strategy.NewDefaultRegistry(gen, strategy.Chances{
		Item:              cfg.ItemChance,
		Tiered:            cfg.TieredItemChance,
		Custom:            cfg.CustomItemChance,
		EntityMultipliers: cfg.EntityChanceMultipliers,
		EntityTiers:       cfg.EntityTiers,
	})
	if _, ok := strategies.ByID(cfg.DropStrategy); !ok {
		log.Warn(ctx, "unknown drop_strategy; no drops will be generated", logger.String("drop_strategy", cfg.DropStrategy))
	}

	tr := tracker.New()
	sink := broadcast.NewLogSink(broadcast.WithLogger(log.Named("broadcast")))
	d := dispatch.New(dispatch.Settings{
		DisplayMobEquipment:       cfg.DisplayMobEquipment,
		DisableLegacyItemChecks:   cfg.DisableLegacyItemChecks,
		RequirePlayerKillForDrops: cfg.RequirePlayerKillForDrops,
		EnabledWorlds:             cfg.EnabledWorlds,
		Strategy:                  cfg.DropStrategy,
		Language:                  model.LanguageSettings{BroadcastMessage: cfg.BroadcastMessage},
	}, resolver, defs.Tiers, defs.CustomItems, strategies,
		dispatch.WithRand(rng),
		dispatch.WithTagStore(tags),
		dispatch.WithBroadcaster(sink),
		dispatch.WithTracker(tr),
		dispatch.WithDamageable(caps.SupportsDamageable),
		dispatch.WithLogger(log.Named("dispatch")),
	)

	dlog := log.Named("outcome")
	svc := service.New(d,
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithLogger(log.Named("service")),
		service.WithResultFunc(func(ctx context.Context, ev *model.DeathEvent, o dispatch.Outcome) {
			dlog.Debug(ctx, "death event handled",
				logger.String("event_id", ev.ID),
				logger.String("filtered", o.Filtered),
				logger.String("mode", o.Mode),
				logger.Int("stamped", o.Stamped),
				logger.Int("dropped", o.Dropped),
				logger.Int("broadcast", o.Broadcast),
			)
		}),
	)

	return &engine{caps: caps, defs: defs, tags: tags, service: svc, tracker: tr, sink: sink}, nil
}

// replay submits events in order. Rejected submissions are logged and
// skipped.
func replay(ctx context.Context, svc *service.Service, events []*model.DeathEvent, log logger.Logger) {
	for _, ev := range events {
		if ctx.Err() != nil {
			log.Warn(ctx, "replay interrupted")
			return
		}
		if err := svc.Submit(ctx, ev); err != nil {
			log.Warn(ctx, "death event rejected", logger.String("event_id", ev.ID), logger.Error(err))
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // loot rolls are not security sensitive
}
