package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/hints"
	"github.com/km-arc/go-autowire/framework/inspect"
	"github.com/km-arc/go-autowire/framework/logging"
	"github.com/km-arc/go-autowire/framework/resolver"
	"github.com/km-arc/go-autowire/framework/routing"
	"github.com/km-arc/go-autowire/framework/selection"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "*config.Config" → alias, so autowired constructors can ask for it
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) any {
		return config.Load(envFiles...)
	})
	app.Alias("config", container.AbstractFor[*config.Config](""))
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from "config" and hands it to
// the container, so autowire registrations that follow are logged.
//
// Bound abstracts:
//   - "log"         → *zap.Logger
//   - "*zap.Logger" → alias
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	cfg, err := container.TryResolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	app.Instance("log", log)
	app.Alias("log", container.AbstractFor[*zap.Logger](""))
	app.SetLogger(log)
	return nil
}

// ── ContainerServiceProvider ──────────────────────────────────────────────────

// ContainerServiceProvider configures constructor selection from "config":
// the fallback strategy from AUTOWIRE_STRATEGY, and a YAML hint vocabulary
// from AUTOWIRE_HINTS_FILE consulted before the built-in one.
//
// It must be registered before any provider that autowires types.
type ContainerServiceProvider struct {
	container.BaseProvider
}

func (p *ContainerServiceProvider) Register(app *container.Container) error {
	cfg, err := container.TryResolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	sel, err := NewSelector(app, cfg.Autowire)
	if err != nil {
		return err
	}
	app.SetSelector(sel)
	app.Instance("selector", sel)
	return nil
}

// NewSelector builds the selector described by cfg. MostResolvable checks
// candidates against app's registrations.
func NewSelector(app *container.Container, cfg config.AutowireConfig) (*selection.Selector, error) {
	var extractor hints.Extractor = hints.DefaultVocabulary()
	if cfg.HintsFile != "" {
		cv, err := hints.LoadConfig(cfg.HintsFile)
		if err != nil {
			return nil, err
		}
		extractor = hints.Chain(cv, extractor)
	}
	factory := resolver.NewFactory(extractor)

	var strategy selection.Strategy
	switch cfg.Strategy {
	case "", config.StrategyMostParameters:
		strategy = selection.MostParameters()
	case config.StrategyMostResolvable:
		strategy = selection.MostResolvable(factory, app.Resolvable)
	default:
		return nil, fmt.Errorf("providers: unknown autowire strategy %q", cfg.Strategy)
	}
	return selection.New(selection.WithFactory(factory), selection.WithStrategy(strategy)), nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton("router", func(c *container.Container) any {
		log, _ := container.TryResolve[*zap.Logger](c, "log")
		return routing.New(log)
	})
	return nil
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider mounts the build plan inspector on the router at
// boot when AUTOWIRE_INSPECTOR is set.
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	app.Singleton("inspector", func(c *container.Container) any {
		log, _ := container.TryResolve[*zap.Logger](c, "log")
		return inspect.New(app, log)
	})
	return nil
}

func (p *InspectorServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.TryResolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	if !cfg.Autowire.Inspector {
		return nil
	}
	router, err := container.TryResolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	h, err := container.TryResolve[*inspect.Handler](app, "inspector")
	if err != nil {
		return err
	}
	router.Mount(inspect.Prefix, h.Routes())
	return nil
}
