package metadata

import (
	"reflect"
	"strings"
)

// TypeDescriptor is a read-only view over a constructible type and the
// constructors declared for it.
//
// Descriptors are built once by Describe and never mutated afterwards, so a
// *TypeDescriptor is safe to share between goroutines and to use as a cache
// key.
type TypeDescriptor struct {
	typ   reflect.Type
	name  string
	ctors []*ConstructorDescriptor
}

// Type returns the described Go type.
func (t *TypeDescriptor) Type() reflect.Type { return t.typ }

// Name returns the package-qualified type name, e.g. "app.Widget".
func (t *TypeDescriptor) Name() string { return t.name }

// Constructors returns the declared constructors in declaration order.
func (t *TypeDescriptor) Constructors() []*ConstructorDescriptor {
	out := make([]*ConstructorDescriptor, len(t.ctors))
	copy(out, t.ctors)
	return out
}

// Public returns the constructors a container is allowed to call.
func (t *TypeDescriptor) Public() []*ConstructorDescriptor {
	out := make([]*ConstructorDescriptor, 0, len(t.ctors))
	for _, c := range t.ctors {
		if c.public {
			out = append(out, c)
		}
	}
	return out
}

func (t *TypeDescriptor) String() string { return t.name }

// ConstructorDescriptor describes one constructor function of a type.
type ConstructorDescriptor struct {
	owner     string
	name      string
	fn        reflect.Value
	marked    bool
	public    bool
	returnErr bool
	items     []any
	params    []*ParameterDescriptor
}

// Name returns the constructor name used in diagnostics.
func (c *ConstructorDescriptor) Name() string { return c.name }

// Owner returns the name of the type the constructor builds.
func (c *ConstructorDescriptor) Owner() string { return c.owner }

// Func returns the callable constructor.
func (c *ConstructorDescriptor) Func() reflect.Value { return c.fn }

// Marked reports whether the type author designated this constructor as the
// one the container must use.
func (c *ConstructorDescriptor) Marked() bool { return c.marked }

// Public reports whether the constructor may be used for injection.
func (c *ConstructorDescriptor) Public() bool { return c.public }

// ReturnsError reports whether the constructor has a trailing error result.
func (c *ConstructorDescriptor) ReturnsError() bool { return c.returnErr }

// Arity returns the number of parameters.
func (c *ConstructorDescriptor) Arity() int { return len(c.params) }

// Parameters returns the parameters in declared order.
func (c *ConstructorDescriptor) Parameters() []*ParameterDescriptor {
	out := make([]*ParameterDescriptor, len(c.params))
	copy(out, c.params)
	return out
}

// Metadata returns the constructor-level metadata items.
func (c *ConstructorDescriptor) Metadata() []any {
	out := make([]any, len(c.items))
	copy(out, c.items)
	return out
}

// String renders the constructor signature, e.g. "NewWidget(app.Gear, app.Logger)".
func (c *ConstructorDescriptor) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	b.WriteByte('(')
	for i, p := range c.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.typ.String())
	}
	b.WriteByte(')')
	return b.String()
}

// ParameterDescriptor describes one constructor parameter: its declared type,
// its position and the raw metadata items attached to it.
type ParameterDescriptor struct {
	owner    string
	ctor     string
	typ      reflect.Type
	position int
	items    []any
}

// Type returns the declared parameter type.
func (p *ParameterDescriptor) Type() reflect.Type { return p.typ }

// Position returns the zero-based ordinal of the parameter.
func (p *ParameterDescriptor) Position() int { return p.position }

// Constructor returns the name of the declaring constructor.
func (p *ParameterDescriptor) Constructor() string { return p.ctor }

// Owner returns the name of the type the declaring constructor builds.
func (p *ParameterDescriptor) Owner() string { return p.owner }

// Metadata returns the items attached to the parameter, in attachment order.
func (p *ParameterDescriptor) Metadata() []any {
	out := make([]any, len(p.items))
	copy(out, p.items)
	return out
}

// Attribute is implemented by metadata items that declare their own usage
// rules. Items returning false from AllowMultiple may be attached at most
// once per parameter (or per constructor for constructor-level items).
type Attribute interface {
	AllowMultiple() bool
}

// InjectionConstructor marks a constructor as the one the container must use.
// Attaching it is equivalent to the Marked option.
type InjectionConstructor struct{}

// AllowMultiple implements Attribute.
func (InjectionConstructor) AllowMultiple() bool { return false }

// TypeName returns the display name of t, e.g. "app.Widget" or "*app.Gear".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
