// Package config defines the loot engine configuration and its loading.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	LogJSON  bool   `koanf:"log_json"`

	// QueueSize bounds the pending death events.
	QueueSize int `koanf:"queue_size"`
	// DedupeSize bounds remembered event IDs; 0 remembers all.
	DedupeSize int `koanf:"dedupe_size"`
	// ResolverCacheSize bounds materialized custom items kept for
	// display-based identification.
	ResolverCacheSize int `koanf:"resolver_cache_size"`

	// HostVersion is the game host version, e.g. "1.16.5".
	HostVersion string `koanf:"host_version"`

	TiersPath       string `koanf:"tiers_path"`
	CustomItemsPath string `koanf:"custom_items_path"`
	ScenarioPath    string `koanf:"scenario_path"`
	// MetricsTextfile, when set, receives a Prometheus text exposition on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`
	// RandomSeed makes rolls reproducible; 0 seeds randomly.
	RandomSeed uint64 `koanf:"random_seed"`

	DisplayMobEquipment       bool     `koanf:"display_mob_equipment"`
	DisableLegacyItemChecks   bool     `koanf:"disable_legacy_item_checks"`
	RequirePlayerKillForDrops bool     `koanf:"require_player_kill_for_drops"`
	EnabledWorlds             []string `koanf:"enabled_worlds"`

	DropStrategy     string  `koanf:"drop_strategy"`
	ItemChance       float64 `koanf:"item_chance"`
	TieredItemChance float64 `koanf:"tiered_item_chance"`
	CustomItemChance float64 `koanf:"custom_item_chance"`

	// EntityTiers restricts the tiers each entity type can drop.
	EntityTiers map[string][]string `koanf:"entity_tiers"`
	// EntityChanceMultipliers scale ItemChance per entity type.
	EntityChanceMultipliers map[string]float64 `koanf:"entity_chance_multipliers"`

	// BroadcastMessage supports %receiver% and %item%.
	BroadcastMessage string `koanf:"broadcast_message"`
	// CustomEnchantments maps extra enchantment names to keys.
	CustomEnchantments map[string]string `koanf:"custom_enchantments"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		QueueSize:         1024,
		DedupeSize:        50_000,
		ResolverCacheSize: 512,
		HostVersion:       "1.16.5",
		EnabledWorlds:     []string{"world"},
		DropStrategy:      "single",
		ItemChance:        0.25,
		TieredItemChance:  0.9,
		CustomItemChance:  0.1,
		BroadcastMessage:  "&6[DropForge] &7%receiver%&a has found a %item%&a!",
	}
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize < 0 {
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.HostVersion) == "" {
		return fmt.Errorf("%w: host_version must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DropStrategy) == "" {
		return fmt.Errorf("%w: drop_strategy must not be empty", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"item_chance":        c.ItemChance,
		"tiered_item_chance": c.TieredItemChance,
		"custom_item_chance": c.CustomItemChance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, name, v)
		}
	}
	for entity, m := range c.EntityChanceMultipliers {
		if m < 0 {
			return fmt.Errorf("%w: entity_chance_multipliers.%s must not be negative", ErrInvalidConfig, entity)
		}
	}
	return nil
}

// normalize upper-cases entity type keys so lookups by host entity type match.
func (c *Config) normalize() {
	if len(c.EntityTiers) > 0 {
		m := make(map[string][]string, len(c.EntityTiers))
		for k, v := range c.EntityTiers {
			m[strings.ToUpper(k)] = v
		}
		c.EntityTiers = m
	}
	if len(c.EntityChanceMultipliers) > 0 {
		m := make(map[string]float64, len(c.EntityChanceMultipliers))
		for k, v := range c.EntityChanceMultipliers {
			m[strings.ToUpper(k)] = v
		}
		c.EntityChanceMultipliers = m
	}
	c.DropStrategy = strings.ToLower(strings.TrimSpace(c.DropStrategy))
}
