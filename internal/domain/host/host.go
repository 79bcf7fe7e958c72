// Package host resolves what the game host supports from its version string.
package host

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"
)

// ErrInvalidVersion is returned when the host version cannot be parsed.
var ErrInvalidVersion = errors.New("invalid host version")

var (
	damageableSince     = version.Must(version.NewVersion("1.13"))
	persistentTagsSince = version.Must(version.NewVersion("1.14"))
	legacyDeprecatedAt  = version.Must(version.NewVersion("1.16.2"))
)

// server banners embed the game version as "(MC: 1.16.5)"
var bannerPattern = regexp.MustCompile(`\(MC:\s*([0-9][0-9.]*)\)`)

// Capabilities are resolved once at startup and shared read-only.
type Capabilities struct {
	Version                *version.Version
	SupportsDamageable     bool
	SupportsPersistentTags bool
	LegacyChecksDeprecated bool
}

// Detect parses a version such as "1.16.5", "1.16.5-R0.1-SNAPSHOT" or a
// server banner containing "(MC: 1.16.5)".
func Detect(raw string) (Capabilities, error) {
	s := strings.TrimSpace(raw)
	if m := bannerPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	v, err := version.NewVersion(s)
	if err != nil {
		return Capabilities{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}
	core := v.Core()
	return Capabilities{
		Version:                core,
		SupportsDamageable:     core.GreaterThanOrEqual(damageableSince),
		SupportsPersistentTags: core.GreaterThanOrEqual(persistentTagsSince),
		LegacyChecksDeprecated: core.GreaterThanOrEqual(legacyDeprecatedAt),
	}, nil
}

// Modern returns the capabilities of a current host.
func Modern() Capabilities {
	return Capabilities{
		Version:                legacyDeprecatedAt,
		SupportsDamageable:     true,
		SupportsPersistentTags: true,
		LegacyChecksDeprecated: true,
	}
}

// LegacyChecksAllowed reports whether the display-based fallback may run.
func (c Capabilities) LegacyChecksAllowed(disabled bool) bool {
	return !disabled && !c.LegacyChecksDeprecated
}
