package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-autowire/framework/selection"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. A factory signals
// failure by panicking with an error; Make propagates the panic and TryMake
// turns it back into an error.
//
// The container passed to a factory is scoped to the resolution in progress:
// it shares every registration with the root container but tracks its own
// build stack. Factories must not keep it beyond the call; retain the root
// instead, resolvable as "container".
type Factory func(c *Container) any

type binding struct {
	factory   Factory
	singleton bool

	// load registers the deferred provider behind a placeholder binding.
	load func() error
}

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container, mirroring Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / TryMake / Resolve (generic)
//   - Extend (decorate resolved instances)
//   - Contextual binding (when A needs B, give it C)
//   - Autowire: constructor selection from a metadata.TypeDescriptor
type Container struct {
	*state

	// abstracts being built by this resolution, innermost last; empty on
	// the root container
	stack []string
}

// state is shared by the root container and every resolution view.
type state struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extenders, applied in registration order
	extenders map[string][]Extender

	// contextual[concrete][abstract] = factory
	contextual map[string]map[string]Factory

	afterResolving []func(string, any)

	selector *selection.Selector
	plans    map[string]*selection.BuildPlan
	cache    *planCache

	log *zap.Logger
}

// New creates an empty container that autowires with selection.New().
func New() *Container {
	c := &Container{state: &state{
		bindings:   make(map[string]*binding),
		instances:  make(map[string]any),
		aliases:    make(map[string]string),
		extenders:  make(map[string][]Extender),
		contextual: make(map[string]map[string]Factory),
		selector:   selection.New(),
		plans:      make(map[string]*selection.BuildPlan),
		cache:      newPlanCache(),
		log:        zap.NewNop(),
	}}
	// Laravel: $app->instance('container', $app)
	c.Instance("container", c)
	return c
}

// SetLogger replaces the container's logger. A nil logger disables logging.
func (c *Container) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.mu.Lock()
	c.log = l.Named("container")
	c.mu.Unlock()
}

func (c *Container) logger() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make builds a new instance.
//
//	// Laravel: $app->bind(UserRepository::class, fn($app) => new EloquentUserRepository($app))
//	c.Bind("UserRepository", func(c *container.Container) any {
//	    return &EloquentUserRepository{DB: container.Resolve[*sql.DB](c, "db")}
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value.
//
//	// Laravel: $app->instance(Config::class, $config)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.plans, key)
	c.instances[key] = instance
}

// bind must hold mu.Lock. Re-binding drops the cached singleton and any
// plan recorded for the abstract.
func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	key := c.canonical(abstract)
	delete(c.instances, key)
	delete(c.plans, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
func (c *Container) Alias(abstract, alias string) {
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = c.canonical(abstract)
}

// Extend decorates every instance resolved for abstract. An already cached
// singleton is decorated immediately.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
func (c *Container) Extend(abstract string, fn Extender) {
	c.mu.Lock()
	key := c.canonical(abstract)
	c.extenders[key] = append(c.extenders[key], fn)
	inst, cached := c.instances[key]
	c.mu.Unlock()

	if cached {
		extended := fn(inst, c)
		c.mu.Lock()
		c.instances[key] = extended
		c.mu.Unlock()
	}
}

// ── Contextual Binding ────────────────────────────────────────────────────────

// When starts a contextual binding chain.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(fn() => new S3)
//	c.When("PhotoController").Needs("Filesystem").Give(func(c *container.Container) any {
//	    return filesystem.NewS3(...)
//	})
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

func (c *Container) getContextual(concrete, abstract string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[concrete]; ok {
		return m[abstract]
	}
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract, panicking with an error when it cannot.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo := c.Make("UserRepository")
func (c *Container) Make(abstract string) any {
	instance, err := c.make(abstract)
	if err != nil {
		panic(err)
	}
	return instance
}

// TryMake resolves an abstract and reports failures, including failures of
// nested resolutions inside factories, as errors.
func (c *Container) TryMake(abstract string) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			instance, err = nil, e
		}
	}()
	return c.make(abstract)
}

// make consults, in order: the contextual binding of the innermost caller,
// the cached instance, then the registered binding. An abstract already on
// this resolution's stack is a cycle.
func (c *Container) make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	c.mu.RUnlock()

	if slices.Contains(c.stack, key) {
		return nil, &CircularDependencyError{Path: append(slices.Clone(c.stack), key)}
	}
	if n := len(c.stack); n > 0 {
		if f := c.getContextual(c.stack[n-1], key); f != nil {
			return c.runFactory(key, f, false), nil
		}
	}

	inst, cached, b := c.lookup(key)
	if cached {
		return inst, nil
	}
	if b != nil && b.load != nil {
		if err := b.load(); err != nil {
			return nil, err
		}
		inst, cached, b = c.lookup(key)
		if cached {
			return inst, nil
		}
		if b != nil && b.load != nil {
			// the deferred provider ran but did not bind key
			b = nil
		}
	}
	if b == nil {
		return nil, &BindingNotFoundError{Abstract: abstract}
	}
	return c.runFactory(key, b.factory, b.singleton), nil
}

func (c *Container) lookup(key string) (any, bool, *binding) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if inst, ok := c.instances[key]; ok {
		return inst, true, nil
	}
	return nil, false, c.bindings[key]
}

// bindDeferred registers a placeholder that runs load on first resolution.
// load is expected to replace the placeholder with a real binding.
func (c *Container) bindDeferred(abstract string, load func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.instances, key)
	c.bindings[key] = &binding{load: load}
}

// runFactory executes a factory in a view whose stack ends with key, applies
// extenders and optionally caches the result.
func (c *Container) runFactory(key string, f Factory, singleton bool) any {
	view := &Container{state: c.state, stack: append(slices.Clip(c.stack), key)}
	instance := f(view)

	c.mu.RLock()
	exts := c.extenders[key]
	c.mu.RUnlock()
	for _, ext := range exts {
		instance = ext(instance, c)
	}

	if singleton {
		c.mu.Lock()
		c.instances[key] = instance
		c.mu.Unlock()
	}

	c.fireAfterResolving(key, instance)
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether an abstract has a binding or an instance.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved reports whether an abstract holds a cached instance.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes the binding, instance and plan of an abstract.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.plans, key)
}

// Flush resets the container. Cached plans survive: they depend only on type
// metadata, which cannot change at runtime.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.contextual = make(map[string]map[string]Factory)
	c.plans = make(map[string]*selection.BuildPlan)
}

// Bindings returns all registered abstract keys, for debugging.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key. Callers hold mu.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after any abstract is built.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result, panicking on mismatch.
//
//	// Instead of: db := c.Make("db").(*sql.DB)
//	// Write:      db := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, abstract string) T {
	typed, err := TryResolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}

// TryResolve is Resolve returning errors instead of panicking.
func TryResolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.TryMake(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] resolved to %T, want %s",
			ErrTypeMismatch, abstract, instance, reflect.TypeFor[T]())
	}
	return typed, nil
}

// TypeKey returns the package-qualified type name of v, useful as an
// abstract key when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
