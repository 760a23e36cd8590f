package selection

import (
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/resolver"
)

// Strategy chooses one constructor among unmarked public candidates. It runs
// only after the marker rules found nothing, and it must fail rather than
// guess when the candidates tie.
type Strategy interface {
	Choose(t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, error)

// Choose implements Strategy.
func (f StrategyFunc) Choose(t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, error) {
	return f(t, candidates)
}

// MostParameters picks the constructor with the greatest parameter count.
// A tie at the maximum is an AmbiguousConstructorError.
func MostParameters() Strategy {
	return StrategyFunc(mostParameters)
}

func mostParameters(t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, error) {
	if len(candidates) == 0 {
		return nil, &NoAccessibleConstructorError{Type: t.Name()}
	}

	best := -1
	var tied []*metadata.ConstructorDescriptor
	for _, c := range candidates {
		switch {
		case c.Arity() > best:
			best = c.Arity()
			tied = append(tied[:0], c)
		case c.Arity() == best:
			tied = append(tied, c)
		}
	}
	if len(tied) > 1 {
		return nil, &AmbiguousConstructorError{
			Type:         t.Name(),
			Arity:        best,
			Constructors: names(tied),
		}
	}
	return tied[0], nil
}

// MostResolvable prefers the largest constructor whose required parameters
// can all be resolved, as reported by resolvable. Optional parameters never
// disqualify a constructor. When no candidate is fully resolvable the choice
// falls back to MostParameters so the failure surfaces at build time with
// the missing dependency named.
func MostResolvable(factory *resolver.Factory, resolvable func(resolver.Policy) bool) Strategy {
	if factory == nil {
		factory = resolver.NewFactory(nil)
	}
	return StrategyFunc(func(t *metadata.TypeDescriptor, candidates []*metadata.ConstructorDescriptor) (*metadata.ConstructorDescriptor, error) {
		var ok []*metadata.ConstructorDescriptor
		for _, c := range candidates {
			if satisfiable(factory, c, resolvable) {
				ok = append(ok, c)
			}
		}
		if len(ok) == 0 {
			return mostParameters(t, candidates)
		}
		return mostParameters(t, ok)
	})
}

func satisfiable(factory *resolver.Factory, c *metadata.ConstructorDescriptor, resolvable func(resolver.Policy) bool) bool {
	for _, p := range c.Parameters() {
		policy := factory.Build(p)
		if policy.IsOptional() {
			continue
		}
		if resolvable == nil || !resolvable(policy) {
			return false
		}
	}
	return true
}

func names(ctors []*metadata.ConstructorDescriptor) []string {
	out := make([]string, len(ctors))
	for i, c := range ctors {
		out[i] = c.String()
	}
	return out
}
