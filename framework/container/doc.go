// Package container provides a Laravel-style IoC container that can build
// types from their described constructors.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. It supports transient bindings, singletons, pre-built instances,
// aliases, contextual bindings, extension (decoration) and autowiring.
//
// Autowiring takes a metadata.TypeDescriptor, asks the selection package for a
// BuildPlan once at registration time, and compiles the plan into an ordinary
// Factory. A type whose constructors are ambiguous fails at Autowire, not at
// the first Make.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("Foo", func(c *container.Container) any { return &Foo{} })
//
//	// Singleton: created once, reused
//	c.Singleton("cache", func(c *container.Container) any {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return cache.New(cfg)
//	})
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("cache", "cacheManager")
//
// # Autowiring
//
// Keys for autowired types come from AbstractOf: the type name for the
// default registration, "type@name" for a named one.
//
//	type Mailer struct{ Log *zap.Logger }
//
//	func NewMailer(log *zap.Logger) *Mailer { return &Mailer{Log: log} }
//	func NewQuietMailer() *Mailer          { return &Mailer{} }
//
//	err := container.AutowireType[*Mailer](c, true,
//	    metadata.Ctor(NewMailer, metadata.Param(0, hints.OptionalDependency{})),
//	    metadata.Ctor(NewQuietMailer),
//	)
//	m, err := container.ResolveType[*Mailer](c)
//
// NewMailer wins (most parameters). Its logger is optional, so a container
// without a *zap.Logger binding builds the mailer with a nil logger.
//
// # Resolving
//
// Each resolution tracks the abstracts it is building. Requesting one of
// them again fails with a CircularDependencyError instead of recursing; an
// optional autowired parameter caught in a cycle receives its zero value.
//
//	raw := c.Make("cache")            // panics on failure
//	raw, err := c.TryMake("cache")    // returns the error instead
//	cache := container.Resolve[*Cache](c, "cache")
//
// # Contextual Binding
//
//	c.When("PhotoController").
//	    Needs("Filesystem").
//	    Give(func(c *container.Container) any { return &S3Filesystem{} })
//
// # Extend / Decorate
//
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(*Logger)}
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return container.AutowireType[*Mailer](app, true, metadata.Ctor(NewMailer))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	if err := registry.Register(&AppServiceProvider{}); err != nil { ... }
//	if err := registry.Boot(); err != nil { ... }
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    app.Singleton("heavy", func(c *container.Container) any {
//	        return heavySetup() // only called on first app.Make("heavy")
//	    })
//	    return nil
//	}
package container
