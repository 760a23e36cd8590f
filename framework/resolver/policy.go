// Package resolver turns constructor parameters into resolver policies: an
// executable description of how a plan compiler obtains each argument.
package resolver

import (
	"reflect"
	"strconv"

	"github.com/km-arc/go-autowire/framework/hints"
	"github.com/km-arc/go-autowire/framework/metadata"
)

// Kind discriminates the Policy variant.
type Kind uint8

const (
	// KindDefault resolves the type under its default registration.
	KindDefault Kind = iota
	// KindNamed resolves the type under a specific registration name.
	KindNamed
	// KindOptional resolves like KindNamed/KindDefault but yields the zero
	// value instead of an error when resolution fails.
	KindOptional
	// KindConstant supplies a fixed value. Plan compilers accept it; the
	// Factory never produces it.
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindNamed:
		return "named"
	case KindOptional:
		return "optional"
	case KindConstant:
		return "constant"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Policy describes how to obtain one constructor argument. Policies are
// plain values: comparable with Equal and safe to copy and share.
type Policy struct {
	kind  Kind
	typ   reflect.Type
	name  string
	value any
}

// Default resolves t under its default registration.
func Default(t reflect.Type) Policy { return Policy{kind: KindDefault, typ: t} }

// Named resolves t under the registration called name.
func Named(t reflect.Type, name string) Policy { return Policy{kind: KindNamed, typ: t, name: name} }

// Optional resolves t under name (default when empty) and tolerates failure.
func Optional(t reflect.Type, name string) Policy {
	return Policy{kind: KindOptional, typ: t, name: name}
}

// Constant supplies v for a parameter of type t.
func Constant(t reflect.Type, v any) Policy { return Policy{kind: KindConstant, typ: t, value: v} }

// Kind returns the policy variant.
func (p Policy) Kind() Kind { return p.kind }

// Type returns the declared parameter type.
func (p Policy) Type() reflect.Type { return p.typ }

// Name returns the registration name; empty means the default registration.
func (p Policy) Name() string { return p.name }

// Value returns the constant of a KindConstant policy.
func (p Policy) Value() any { return p.value }

// IsOptional reports whether resolution failure must be tolerated.
func (p Policy) IsOptional() bool { return p.kind == KindOptional }

// Equal reports structural equality. Constants compare with ==; a constant
// holding an incomparable value is only equal to itself by kind and type.
func (p Policy) Equal(o Policy) bool {
	if p.kind != o.kind || p.typ != o.typ || p.name != o.name {
		return false
	}
	if p.kind != KindConstant {
		return true
	}
	if p.value == nil || o.value == nil {
		return p.value == o.value
	}
	if !reflect.TypeOf(p.value).Comparable() || !reflect.TypeOf(o.value).Comparable() {
		return true
	}
	return p.value == o.value
}

func (p Policy) String() string {
	t := metadata.TypeName(p.typ)
	switch p.kind {
	case KindDefault:
		return "ResolveDefault(" + t + ")"
	case KindNamed:
		return "ResolveNamed(" + t + ", " + strconv.Quote(p.name) + ")"
	case KindOptional:
		if p.name == "" {
			return "ResolveOptional(" + t + ", <absent>)"
		}
		return "ResolveOptional(" + t + ", " + strconv.Quote(p.name) + ")"
	case KindConstant:
		return "ResolveConstant(" + t + ")"
	default:
		return p.kind.String()
	}
}

// Factory builds the Policy of a parameter from its resolution hint.
type Factory struct {
	extractor hints.Extractor
}

// NewFactory returns a Factory reading hints through extractor. A nil
// extractor selects hints.DefaultVocabulary.
func NewFactory(extractor hints.Extractor) *Factory {
	if extractor == nil {
		extractor = hints.DefaultVocabulary()
	}
	return &Factory{extractor: extractor}
}

// Build returns the policy for p. It is total: every parameter yields a
// policy, and unregistered names surface only when the plan is executed.
func (f *Factory) Build(p *metadata.ParameterDescriptor) Policy {
	h := f.extractor.Extract(p)
	switch h.Kind {
	case hints.KindOptional:
		return Optional(p.Type(), h.Name)
	case hints.KindNamed:
		return Named(p.Type(), h.Name)
	default:
		return Default(p.Type())
	}
}

// BuildAll returns one policy per parameter, in order.
func (f *Factory) BuildAll(params []*metadata.ParameterDescriptor) []Policy {
	out := make([]Policy, len(params))
	for i, p := range params {
		out[i] = f.Build(p)
	}
	return out
}
