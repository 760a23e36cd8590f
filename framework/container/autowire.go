package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/resolver"
	"github.com/km-arc/go-autowire/framework/selection"
)

// AbstractOf returns the abstract key an autowired parameter of type t is
// looked up under. The default registration uses the type name; a named
// registration appends "@name".
//
//	container.AbstractOf(reflect.TypeFor[Logger](), "")       // "app.Logger"
//	container.AbstractOf(reflect.TypeFor[Logger](), "audit")  // "app.Logger@audit"
func AbstractOf(t reflect.Type, name string) string {
	base := metadata.TypeName(t)
	if name == "" {
		return base
	}
	return base + "@" + name
}

// AbstractFor is AbstractOf for the static type T.
func AbstractFor[T any](name string) string {
	return AbstractOf(reflect.TypeFor[T](), name)
}

// planCache memoizes plans by descriptor identity. Selection is pure, so a
// cached plan never goes stale for the lifetime of the descriptor.
type planCache struct {
	mu    sync.RWMutex
	plans map[*metadata.TypeDescriptor]*selection.BuildPlan
}

func newPlanCache() *planCache {
	return &planCache{plans: make(map[*metadata.TypeDescriptor]*selection.BuildPlan)}
}

func (pc *planCache) get(sel *selection.Selector, td *metadata.TypeDescriptor) (*selection.BuildPlan, error) {
	pc.mu.RLock()
	plan, ok := pc.plans[td]
	pc.mu.RUnlock()
	if ok {
		return plan, nil
	}

	plan, err := sel.Select(td)
	if err != nil {
		return nil, err
	}
	pc.mu.Lock()
	pc.plans[td] = plan
	pc.mu.Unlock()
	return plan, nil
}

func (pc *planCache) reset() {
	pc.mu.Lock()
	pc.plans = make(map[*metadata.TypeDescriptor]*selection.BuildPlan)
	pc.mu.Unlock()
}

// SetSelector replaces the selector used by Autowire and drops cached plans.
// Plans already compiled into bindings are kept.
func (c *Container) SetSelector(s *selection.Selector) {
	if s == nil {
		s = selection.New()
	}
	c.mu.Lock()
	c.selector = s
	c.mu.Unlock()
	c.cache.reset()
}

// Selector returns the selector used by Autowire.
func (c *Container) Selector() *selection.Selector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selector
}

// Autowire binds abstract to a factory that builds td through its selected
// constructor. Selection runs now, so a malformed type fails at registration
// rather than at first use.
//
//	td := metadata.MustDescribeOf[*Widget](metadata.Ctor(NewWidget))
//	if err := c.Autowire(container.AbstractFor[*Widget](""), td, true); err != nil { ... }
func (c *Container) Autowire(abstract string, td *metadata.TypeDescriptor, singleton bool) error {
	plan, err := c.cache.get(c.Selector(), td)
	if err != nil {
		return fmt.Errorf("container: autowire [%s]: %w", abstract, err)
	}

	c.mu.Lock()
	c.bind(abstract, c.compile(abstract, plan), singleton)
	c.plans[c.canonical(abstract)] = plan
	c.mu.Unlock()

	c.logger().Debug("autowired",
		zap.String("abstract", abstract),
		zap.String("constructor", plan.Constructor.String()),
		zap.Int("arity", plan.Constructor.Arity()),
		zap.Bool("singleton", singleton),
	)
	return nil
}

// AutowireType describes T with ctors and autowires it under its default
// abstract, AbstractFor[T]("").
func AutowireType[T any](c *Container, singleton bool, ctors ...metadata.Constructor) error {
	td, err := metadata.DescribeOf[T](ctors...)
	if err != nil {
		return err
	}
	return c.Autowire(AbstractFor[T](""), td, singleton)
}

// ResolveType resolves T under its default abstract.
func ResolveType[T any](c *Container) (T, error) {
	return TryResolve[T](c, AbstractFor[T](""))
}

// Plan returns the plan an autowired abstract was compiled from.
func (c *Container) Plan(abstract string) (*selection.BuildPlan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plans[c.canonical(abstract)]
	return p, ok
}

// Plans returns the autowired abstracts, sorted, with their plans.
func (c *Container) Plans() []NamedPlan {
	c.mu.RLock()
	out := make([]NamedPlan, 0, len(c.plans))
	for k, p := range c.plans {
		out = append(out, NamedPlan{Abstract: k, Plan: p})
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Abstract < out[j].Abstract })
	return out
}

// NamedPlan pairs an abstract with its plan.
type NamedPlan struct {
	Abstract string
	Plan     *selection.BuildPlan
}

// Resolvable reports whether the registration a policy points at exists.
// It plugs into selection.MostResolvable.
func (c *Container) Resolvable(p resolver.Policy) bool {
	if p.Kind() == resolver.KindConstant {
		return true
	}
	return c.Bound(AbstractOf(p.Type(), p.Name()))
}

// compile turns a plan into a Factory.
func (c *Container) compile(abstract string, plan *selection.BuildPlan) Factory {
	ctor := plan.Constructor
	resolvers := append([]resolver.Policy(nil), plan.Resolvers...)

	return func(c *Container) any {
		args := make([]reflect.Value, len(resolvers))
		for i, p := range resolvers {
			v, err := c.argument(abstract, p)
			if err != nil {
				panic(&ResolutionError{Abstract: abstract, Constructor: ctor.String(), Parameter: i, Err: err})
			}
			args[i] = v
		}

		out := ctor.Func().Call(args)
		if ctor.ReturnsError() && !out[1].IsNil() {
			panic(&ResolutionError{Abstract: abstract, Constructor: ctor.String(), Parameter: -1, Err: out[1].Interface().(error)})
		}
		return out[0].Interface()
	}
}

// argument obtains one constructor argument. Optional policies turn any
// resolution failure into the zero value of the parameter type.
func (c *Container) argument(owner string, p resolver.Policy) (reflect.Value, error) {
	if p.Kind() == resolver.KindConstant {
		return assignable(p.Value(), p.Type())
	}

	key := AbstractOf(p.Type(), p.Name())
	instance, err := c.TryMake(key)
	if err != nil {
		if p.IsOptional() {
			c.logger().Debug("optional dependency absent",
				zap.String("abstract", owner),
				zap.String("dependency", key),
				zap.Error(err),
			)
			return reflect.Zero(p.Type()), nil
		}
		return reflect.Value{}, err
	}
	return assignable(instance, p.Type())
}

func assignable(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, rv.Type(), t)
	}
	return rv, nil
}
