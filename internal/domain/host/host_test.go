package host_test

import (
	"errors"
	"testing"

	"github.com/okian/dropforge/internal/domain/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		in         string
		damageable bool
		tags       bool
		deprecated bool
	}{
		{"1.12.2", false, false, false},
		{"1.13", true, false, false},
		{"1.14.4", true, true, false},
		{"1.16.1", true, true, false},
		{"1.16.2", true, true, true},
		{"1.16.2-R0.1-SNAPSHOT", true, true, true},
		{"git-Paper-794 (MC: 1.16.5)", true, true, true},
		{"1.20.4", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			caps, err := host.Detect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.damageable, caps.SupportsDamageable)
			assert.Equal(t, tt.tags, caps.SupportsPersistentTags)
			assert.Equal(t, tt.deprecated, caps.LegacyChecksDeprecated)
		})
	}
}

func TestDetectInvalid(t *testing.T) {
	_, err := host.Detect("not a version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, host.ErrInvalidVersion))
}

func TestLegacyChecksAllowed(t *testing.T) {
	old, err := host.Detect("1.15.2")
	require.NoError(t, err)

	assert.True(t, old.LegacyChecksAllowed(false))
	assert.False(t, old.LegacyChecksAllowed(true))
	assert.False(t, host.Modern().LegacyChecksAllowed(false))
}
