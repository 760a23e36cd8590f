package container

import (
	"errors"
	"fmt"
	"sync"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds services and must not resolve other bindings. Boot runs
// after every eager provider has registered, so it may resolve freely.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return container.AutowireType[*Mailer](app, true, metadata.Ctor(NewMailer))
//	}
type ServiceProvider interface {
	Register(app *Container) error
	Boot(app *Container) error

	// Provides lists the abstracts a deferred provider registers.
	//
	//	// Laravel: public function provides(): array { return [Cache::class]; }
	Provides() []string

	// IsDeferred reports whether registration waits until one of Provides()
	// is first resolved.
	//
	//	// Laravel: protected $defer = true;
	IsDeferred() bool
}

// BaseProvider supplies no-op Boot, Provides and IsDeferred. Embed it and
// implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── AutowireProvider ──────────────────────────────────────────────────────────

// Autowiring is one type registered by an AutowireProvider. An empty
// Abstract defaults to AbstractOf(Type.Type(), "").
type Autowiring struct {
	Abstract  string
	Type      *metadata.TypeDescriptor
	Singleton bool
}

// AutowireProvider autowires a fixed list of described types. Every type is
// attempted; selection errors are joined.
type AutowireProvider struct {
	BaseProvider
	Types []Autowiring
}

func (p *AutowireProvider) Register(app *Container) error {
	var errs []error
	for _, w := range p.Types {
		if w.Type == nil {
			errs = append(errs, fmt.Errorf("container: autowire [%s]: nil type descriptor", w.Abstract))
			continue
		}
		abstract := w.Abstract
		if abstract == "" {
			abstract = AbstractOf(w.Type.Type(), "")
		}
		if err := app.Autowire(abstract, w.Type, w.Singleton); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, including deferred
// ones, like Laravel's Application::registerConfiguredProviders and
// Application::bootProviders.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	loads      map[ServiceProvider]*deferredLoad
	registered map[ServiceProvider]bool
	booted     bool
}

// deferredLoad registers a deferred provider at most once and remembers the
// outcome for every later resolution.
type deferredLoad struct {
	once sync.Once
	err  error
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		loads:      make(map[ServiceProvider]*deferredLoad),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately and, if the
// registry has already booted, boot immediately too.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		r.loads[provider] = &deferredLoad{}
		r.mu.Unlock()
		r.interceptDeferred(provider)
		return nil
	}
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register %T: %w", provider, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred binds a placeholder for every deferred abstract. The
// first Make of any of them registers (and, after Boot, boots) the provider,
// which replaces the placeholders with the real bindings. Concurrent first
// resolutions wait for the same load; a failed load is reported to all of
// them and to every later one.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	r.mu.Lock()
	ld := r.loads[provider]
	r.mu.Unlock()

	load := func() error {
		ld.once.Do(func() { ld.err = r.loadDeferred(provider) })
		return ld.err
	}
	for _, abstract := range provider.Provides() {
		r.app.bindDeferred(abstract, load)
	}
}

func (r *ProviderRegistry) loadDeferred(provider ServiceProvider) error {
	r.mu.Lock()
	for _, abs := range provider.Provides() {
		if r.deferred[abs] == provider {
			delete(r.deferred, abs)
		}
	}
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register deferred %T: %w", provider, err)
	}
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot deferred %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot on every eager provider, once.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
