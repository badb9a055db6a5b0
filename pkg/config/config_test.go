package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/pkg/config"
)

type serverConfig struct {
	Addr    string        `env:"CFG_TEST_ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
	Debug   bool          `env:"CFG_TEST_DEBUG"`
}

type backendConfig struct {
	Backend string `env:"CFG_TEST_BACKEND" envDefault:"memory"`
}

func (c backendConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "redis" {
		return errors.New("CFG_TEST_BACKEND must be memory or redis")
	}
	return nil
}

type requiredConfig struct {
	Secret string `env:"CFG_TEST_SECRET,required"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED"`
}

// Tests below mutate the environment, so they do not run in parallel.

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg serverConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.False(t, cfg.Debug)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CFG_TEST_ADDR", ":9090")
		t.Setenv("CFG_TEST_TIMEOUT", "1m")
		t.Setenv("CFG_TEST_DEBUG", "true")

		var cfg serverConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, time.Minute, cfg.Timeout)
		assert.True(t, cfg.Debug)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg requiredConfig
		assert.ErrorIs(t, config.Parse(&cfg), config.ErrParsingConfig)
	})

	t.Run("validate hook", func(t *testing.T) {
		t.Setenv("CFG_TEST_BACKEND", "mongo")
		var cfg backendConfig
		err := config.Parse(&cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "memory or redis")
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Parse[serverConfig](nil), config.ErrNilPointer)
	})
}

func TestLoadCaches(t *testing.T) {
	t.Setenv("CFG_TEST_CACHED", "first")
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CFG_TEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	assert.NotPanics(t, func() {
		var again cachedConfig
		config.MustLoad(&again)
	})
}
