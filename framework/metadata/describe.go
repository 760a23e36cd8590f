package metadata

import (
	"errors"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// ErrInvalidConstructor is the sentinel matched by every ConstructorError.
var ErrInvalidConstructor = errors.New("metadata: invalid constructor")

var errorType = reflect.TypeFor[error]()

// ConstructorError reports a constructor declaration Describe refused.
type ConstructorError struct {
	Type        string
	Constructor string
	Reason      string
}

// Error implements the error interface.
func (e *ConstructorError) Error() string {
	// Example: metadata: invalid constructor app.NewWidget for app.Widget: must not be variadic
	return "metadata: invalid constructor " + e.Constructor + " for " + e.Type + ": " + e.Reason
}

// Unwrap lets errors.Is match ErrInvalidConstructor.
func (e *ConstructorError) Unwrap() error { return ErrInvalidConstructor }

// Constructor is a constructor declaration, produced by Ctor and consumed by
// Describe.
type Constructor struct {
	fn         any
	name       string
	marked     bool
	unexported bool
	items      []any
	params     map[int][]any
}

// CtorOption configures a Constructor declaration.
type CtorOption func(*Constructor)

// Ctor declares fn as a constructor. fn must be a non-variadic function
// returning the target type, optionally followed by an error.
//
//	metadata.Ctor(NewWidget,
//	    metadata.Marked(),
//	    metadata.Param(1, hints.Dependency{Name: "audit"}),
//	)
func Ctor(fn any, opts ...CtorOption) Constructor {
	c := Constructor{fn: fn, params: make(map[int][]any)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Name overrides the diagnostic name, which defaults to the function symbol.
func Name(name string) CtorOption {
	return func(c *Constructor) { c.name = name }
}

// Marked designates the constructor as the one the container must use.
func Marked() CtorOption {
	return func(c *Constructor) { c.marked = true }
}

// Unexported hides the constructor from selection. It stays visible in the
// descriptor for diagnostics.
func Unexported() CtorOption {
	return func(c *Constructor) { c.unexported = true }
}

// With attaches constructor-level metadata items.
func With(items ...any) CtorOption {
	return func(c *Constructor) { c.items = append(c.items, items...) }
}

// Param attaches metadata items to the parameter at position.
func Param(position int, items ...any) CtorOption {
	return func(c *Constructor) {
		c.params[position] = append(c.params[position], items...)
	}
}

// DescribeOf is Describe for the static type T.
func DescribeOf[T any](ctors ...Constructor) (*TypeDescriptor, error) {
	return Describe(reflect.TypeFor[T](), ctors...)
}

// MustDescribeOf is DescribeOf that panics on error. Use at package init.
func MustDescribeOf[T any](ctors ...Constructor) *TypeDescriptor {
	td, err := DescribeOf[T](ctors...)
	if err != nil {
		panic(err)
	}
	return td
}

// Describe validates the constructor declarations for target and returns an
// immutable descriptor. A type with zero constructors is valid here; it is
// rejected later, at selection time.
func Describe(target reflect.Type, ctors ...Constructor) (*TypeDescriptor, error) {
	if target == nil {
		return nil, &ConstructorError{Type: "<nil>", Constructor: "-", Reason: "target type is nil"}
	}

	td := &TypeDescriptor{
		typ:   target,
		name:  TypeName(target),
		ctors: make([]*ConstructorDescriptor, 0, len(ctors)),
	}
	for _, c := range ctors {
		cd, err := describeConstructor(td.name, target, c)
		if err != nil {
			return nil, err
		}
		td.ctors = append(td.ctors, cd)
	}
	return td, nil
}

func describeConstructor(owner string, target reflect.Type, c Constructor) (*ConstructorDescriptor, error) {
	fv := reflect.ValueOf(c.fn)
	name := c.name
	if name == "" {
		name = funcName(fv)
	}
	fail := func(reason string) error {
		return &ConstructorError{Type: owner, Constructor: name, Reason: reason}
	}

	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fail("not a function")
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fail("must not be variadic")
	}

	returnErr := false
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, fail("second result must be error, got " + ft.Out(1).String())
		}
		returnErr = true
	default:
		return nil, fail("must return (T) or (T, error), got " + strconv.Itoa(ft.NumOut()) + " results")
	}
	if !ft.Out(0).AssignableTo(target) {
		return nil, fail("result " + ft.Out(0).String() + " is not assignable to " + owner)
	}

	if err := checkSingleUse(c.items); err != nil {
		return nil, fail(err.Error())
	}
	marked := c.marked
	for _, item := range c.items {
		if _, ok := item.(InjectionConstructor); ok {
			marked = true
		}
	}

	for pos := range c.params {
		if pos < 0 || pos >= ft.NumIn() {
			return nil, fail("metadata attached to parameter " + strconv.Itoa(pos) +
				" of a " + strconv.Itoa(ft.NumIn()) + "-parameter function")
		}
	}

	cd := &ConstructorDescriptor{
		owner:     owner,
		name:      name,
		fn:        fv,
		marked:    marked,
		public:    !c.unexported,
		returnErr: returnErr,
		items:     append([]any(nil), c.items...),
		params:    make([]*ParameterDescriptor, ft.NumIn()),
	}
	for i := 0; i < ft.NumIn(); i++ {
		items := c.params[i]
		if err := checkSingleUse(items); err != nil {
			return nil, fail("parameter " + strconv.Itoa(i) + ": " + err.Error())
		}
		cd.params[i] = &ParameterDescriptor{
			owner:    owner,
			ctor:     name,
			typ:      ft.In(i),
			position: i,
			items:    append([]any(nil), items...),
		}
	}
	return cd, nil
}

// checkSingleUse rejects a second item of the same dynamic type when that
// type is a single-use Attribute.
func checkSingleUse(items []any) error {
	seen := make(map[reflect.Type]bool, len(items))
	for _, item := range items {
		a, ok := item.(Attribute)
		if !ok || a.AllowMultiple() {
			continue
		}
		t := reflect.TypeOf(item)
		if seen[t] {
			return errors.New("duplicate " + t.String() + " attribute")
		}
		seen[t] = true
	}
	return nil
}

// funcName returns "pkg.Func" for a function value.
func funcName(fv reflect.Value) string {
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return "<invalid>"
	}
	fn := runtime.FuncForPC(fv.Pointer())
	if fn == nil {
		return "<anonymous>"
	}
	full := fn.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	return full
}
