package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Strategy names accepted by AUTOWIRE_STRATEGY.
const (
	StrategyMostParameters = "most-parameters"
	StrategyMostResolvable = "most-resolvable"
)

// Config is the central typed configuration struct.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Autowire AutowireConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

// LogConfig drives framework/logging.
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json; empty picks by environment
	Env    string
}

// AutowireConfig drives constructor selection in the container.
type AutowireConfig struct {
	Strategy  string // most-parameters | most-resolvable
	HintsFile string // optional YAML hint vocabulary
	Inspector bool   // expose build plans over HTTP
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	appEnv := env("APP_ENV", "local")
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoAutowire"),
			Env:   appEnv,
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(env("LOG_LEVEL", "info")),
			Format: strings.ToLower(env("LOG_FORMAT", "")),
			Env:    appEnv,
		},
		Autowire: AutowireConfig{
			Strategy:  strings.ToLower(env("AUTOWIRE_STRATEGY", StrategyMostParameters)),
			HintsFile: env("AUTOWIRE_HINTS_FILE", ""),
			Inspector: envBool("AUTOWIRE_INSPECTOR", false),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
