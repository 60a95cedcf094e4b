package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverEnv struct {
	Addr     string        `env:"LOADER_TEST_ADDR" envDefault:":8080"`
	LogLevel string        `env:"LOADER_TEST_LOG_LEVEL" envDefault:"info"`
	Timeout  time.Duration `env:"LOADER_TEST_TIMEOUT" envDefault:"15s"`
	Debug    bool          `env:"LOADER_TEST_DEBUG" envDefault:"false"`
}

func TestLoad_DefaultsApply(t *testing.T) {
	var cfg serverEnv
	require.NoError(t, Load(&cfg))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("LOADER_TEST_ADDR", ":9090")
	t.Setenv("LOADER_TEST_TIMEOUT", "1m")
	t.Setenv("LOADER_TEST_DEBUG", "true")

	var cfg serverEnv
	require.NoError(t, Load(&cfg))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.True(t, cfg.Debug)
}

type secretEnv struct {
	Token string `env:"LOADER_TEST_TOKEN,required"`
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	var cfg secretEnv
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestLoad_MalformedValue(t *testing.T) {
	t.Setenv("LOADER_TEST_TIMEOUT", "soon")

	var cfg serverEnv
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}
