// Package selection picks the constructor a container uses to build a type
// and produces the type's BuildPlan.
//
// Selection runs an ordered rule list:
//
//  1. a type without public constructors fails with NoAccessibleConstructorError;
//  2. a single constructor marked for injection wins, whatever its arity;
//  3. several marked constructors fail with a ConfigurationError wrapping an
//     AmbiguousConstructorError;
//  4. otherwise the fallback Strategy chooses (MostParameters by default).
//
// Selection is pure: the same descriptor always yields an equal plan, and
// a Selector can be shared between goroutines without locking.
package selection

import (
	"github.com/km-arc/go-autowire/framework/hints"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/resolver"
)

// Selector chooses constructors and builds plans.
type Selector struct {
	factory  *resolver.Factory
	fallback Strategy
}

// Option configures a Selector.
type Option func(*Selector)

// WithStrategy replaces the fallback used when no constructor is marked.
func WithStrategy(s Strategy) Option {
	return func(sel *Selector) {
		if s != nil {
			sel.fallback = s
		}
	}
}

// WithFactory sets the resolver factory used to build plan policies.
func WithFactory(f *resolver.Factory) Option {
	return func(sel *Selector) {
		if f != nil {
			sel.factory = f
		}
	}
}

// WithExtractor is WithFactory(resolver.NewFactory(e)).
func WithExtractor(e hints.Extractor) Option {
	return WithFactory(resolver.NewFactory(e))
}

// New returns a Selector using MostParameters and the default hint vocabulary
// unless overridden.
func New(opts ...Option) *Selector {
	s := &Selector{
		factory:  resolver.NewFactory(nil),
		fallback: MostParameters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factory returns the resolver factory the selector builds plans with.
func (s *Selector) Factory() *resolver.Factory { return s.factory }

// rule inspects the public candidates and either decides (handled=true,
// with a constructor or an error) or defers to the next rule.
type rule func(s *Selector, t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (c *metadata.ConstructorDescriptor, handled bool, err error)

var rules = []rule{
	requireAccessible,
	explicitMarker,
	fallback,
}

func requireAccessible(_ *Selector, t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, bool, error) {
	if len(candidates) == 0 {
		return nil, true, &NoAccessibleConstructorError{Type: t.Name()}
	}
	return nil, false, nil
}

func explicitMarker(_ *Selector, t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, bool, error) {
	var marked []*metadata.ConstructorDescriptor
	for _, c := range candidates {
		if c.Marked() {
			marked = append(marked, c)
		}
	}
	switch len(marked) {
	case 0:
		return nil, false, nil
	case 1:
		return marked[0], true, nil
	default:
		ctors := names(marked)
		return nil, true, &ConfigurationError{
			Type:         t.Name(),
			Constructors: ctors,
			Err: &AmbiguousConstructorError{
				Type:         t.Name(),
				Marked:       true,
				Constructors: ctors,
			},
		}
	}
}

func fallback(s *Selector, t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, bool, error) {
	c, err := s.fallback.Choose(t, candidates)
	return c, true, err
}

// Choose returns the constructor the container must use for t.
func (s *Selector) Choose(t *metadata.TypeDescriptor) (*metadata.ConstructorDescriptor, error) {
	if t == nil {
		return nil, &NoAccessibleConstructorError{Type: "<nil>"}
	}
	candidates := t.Public()
	for _, r := range rules {
		c, handled, err := r(s, t, candidates)
		if !handled {
			continue
		}
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, &NoAccessibleConstructorError{Type: t.Name()}
		}
		return c, nil
	}
	return nil, &NoAccessibleConstructorError{Type: t.Name()}
}

// Select chooses a constructor for t and builds one resolver policy per
// parameter, in declared order. It returns either a complete plan or an
// error, never a partial plan.
func (s *Selector) Select(t *metadata.TypeDescriptor) (*BuildPlan, error) {
	c, err := s.Choose(t)
	if err != nil {
		return nil, err
	}
	return &BuildPlan{
		Type:        t,
		Constructor: c,
		Resolvers:   s.factory.BuildAll(c.Parameters()),
	}, nil
}
