package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-autowire/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// clearEnv unsets keys for the duration of the test so defaults and .env
// files apply; t.Setenv registers the restore.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

var allKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT",
	"LOG_LEVEL", "LOG_FORMAT",
	"AUTOWIRE_STRATEGY", "AUTOWIRE_HINTS_FILE", "AUTOWIRE_INSPECTOR",
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, allKeys...)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoAutowire"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, ""},
		{"Log.Env", cfg.Log.Env, "local"},
		{"Autowire.Strategy", cfg.Autowire.Strategy, config.StrategyMostParameters},
		{"Autowire.HintsFile", cfg.Autowire.HintsFile, ""},
		{"Autowire.Inspector", cfg.Autowire.Inspector, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t, allKeys...)
	cfg := config.Load("testdata/autowire.env")

	assert.Equal(t, "Workshop", cfg.App.Name)
	assert.Equal(t, "testing", cfg.Log.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.StrategyMostResolvable, cfg.Autowire.Strategy)
	assert.Equal(t, "testdata/hints.yaml", cfg.Autowire.HintsFile)
	assert.True(t, cfg.Autowire.Inspector)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("AUTOWIRE_STRATEGY", "Most-Parameters")

	cfg := config.Load("testdata/autowire.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, config.StrategyMostParameters, cfg.Autowire.Strategy)
}

func TestLoad_AppDebug(t *testing.T) {
	t.Setenv("APP_DEBUG", "false")
	assert.False(t, config.Load("testdata/empty.env").App.Debug)

	t.Setenv("APP_DEBUG", "true")
	assert.True(t, config.Load("testdata/empty.env").App.Debug)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	clearEnv(t, "MISSING_KEY")

	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
