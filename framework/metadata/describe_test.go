package metadata_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Gear struct{ Teeth int }

type Widget struct {
	Gear *Gear
	Name string
}

type Shape interface{ Area() float64 }

type square struct{ side float64 }

func (s *square) Area() float64 { return s.side * s.side }

func NewWidget(g *Gear) *Widget                   { return &Widget{Gear: g} }
func NewNamedWidget(g *Gear, name string) *Widget { return &Widget{Gear: g, Name: name} }
func NewWidgetErr(g *Gear) (*Widget, error)       { return &Widget{Gear: g}, nil }

type single struct{}

func (single) AllowMultiple() bool { return false }

type repeatable struct{ n int }

func (repeatable) AllowMultiple() bool { return true }

// ── Describe ──────────────────────────────────────────────────────────────────

func TestDescribe_BuildsParameterViews(t *testing.T) {
	t.Parallel()

	td, err := metadata.DescribeOf[*Widget](
		metadata.Ctor(NewNamedWidget, metadata.Param(1, "raw-item")),
	)
	require.NoError(t, err)

	assert.Equal(t, "*metadata_test.Widget", td.Name())
	assert.Equal(t, reflect.TypeFor[*Widget](), td.Type())
	require.Len(t, td.Constructors(), 1)

	c := td.Constructors()[0]
	assert.Equal(t, "metadata_test.NewNamedWidget", c.Name())
	assert.Equal(t, td.Name(), c.Owner())
	assert.Equal(t, 2, c.Arity())
	assert.True(t, c.Public())
	assert.False(t, c.Marked())
	assert.False(t, c.ReturnsError())

	params := c.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, reflect.TypeFor[*Gear](), params[0].Type())
	assert.Equal(t, 0, params[0].Position())
	assert.Empty(t, params[0].Metadata())
	assert.Equal(t, reflect.TypeFor[string](), params[1].Type())
	assert.Equal(t, []any{"raw-item"}, params[1].Metadata())
	assert.Equal(t, c.Name(), params[1].Constructor())
	assert.Equal(t, td.Name(), params[1].Owner())
}

func TestDescribe_Options(t *testing.T) {
	t.Parallel()

	td, err := metadata.DescribeOf[*Widget](
		metadata.Ctor(NewWidget, metadata.Name("primary"), metadata.Marked()),
		metadata.Ctor(NewWidgetErr, metadata.Unexported()),
		metadata.Ctor(NewNamedWidget, metadata.With(metadata.InjectionConstructor{})),
	)
	require.NoError(t, err)

	ctors := td.Constructors()
	require.Len(t, ctors, 3)
	assert.Equal(t, "primary", ctors[0].Name())
	assert.True(t, ctors[0].Marked())
	assert.False(t, ctors[1].Public())
	assert.True(t, ctors[1].ReturnsError())
	assert.True(t, ctors[2].Marked(), "InjectionConstructor item marks the constructor")

	public := td.Public()
	require.Len(t, public, 2)
	assert.Same(t, ctors[0], public[0])
	assert.Same(t, ctors[2], public[1])
}

func TestDescribe_InterfaceTarget(t *testing.T) {
	t.Parallel()

	td, err := metadata.DescribeOf[Shape](
		metadata.Ctor(func() *square { return &square{side: 2} }),
	)
	require.NoError(t, err)
	assert.Equal(t, "metadata_test.Shape", td.Name())
}

func TestDescribe_ZeroConstructorsIsValid(t *testing.T) {
	t.Parallel()

	td, err := metadata.DescribeOf[*Widget]()
	require.NoError(t, err)
	assert.Empty(t, td.Constructors())
	assert.Empty(t, td.Public())
}

func TestDescribe_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctor   metadata.Constructor
		reason string
	}{
		{"not a function", metadata.Ctor(42), "not a function"},
		{"nil function", metadata.Ctor((func() *Widget)(nil)), "not a function"},
		{"variadic", metadata.Ctor(func(gs ...*Gear) *Widget { return nil }), "variadic"},
		{"no results", metadata.Ctor(func() {}), "must return"},
		{"three results", metadata.Ctor(func() (*Widget, int, error) { return nil, 0, nil }), "must return"},
		{"second result not error", metadata.Ctor(func() (*Widget, int) { return nil, 0 }), "second result must be error"},
		{"wrong result type", metadata.Ctor(func() *Gear { return nil }), "not assignable"},
		{"param out of range", metadata.Ctor(NewWidget, metadata.Param(3, "x")), "parameter 3"},
		{"negative param", metadata.Ctor(NewWidget, metadata.Param(-1, "x")), "parameter -1"},
		{"duplicate param attribute", metadata.Ctor(NewWidget, metadata.Param(0, single{}, single{})), "duplicate"},
		{"duplicate marker", metadata.Ctor(NewWidget, metadata.With(metadata.InjectionConstructor{}, metadata.InjectionConstructor{})), "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := metadata.DescribeOf[*Widget](tt.ctor)
			require.Error(t, err)
			assert.True(t, errors.Is(err, metadata.ErrInvalidConstructor))

			var ce *metadata.ConstructorError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "*metadata_test.Widget", ce.Type)
			assert.Contains(t, ce.Reason, tt.reason)
		})
	}
}

func TestDescribe_AllowsRepeatableAndPlainItems(t *testing.T) {
	t.Parallel()

	_, err := metadata.DescribeOf[*Widget](
		metadata.Ctor(NewWidget, metadata.Param(0, repeatable{1}, repeatable{2}, "a", "a")),
	)
	require.NoError(t, err)
}

func TestDescribe_NilTarget(t *testing.T) {
	t.Parallel()

	_, err := metadata.Describe(nil)
	require.ErrorIs(t, err, metadata.ErrInvalidConstructor)
}

func TestMustDescribeOf_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		metadata.MustDescribeOf[*Widget](metadata.Ctor("nope"))
	})
}

// ── immutability ──────────────────────────────────────────────────────────────

func TestDescriptor_ReturnsCopies(t *testing.T) {
	t.Parallel()

	td := metadata.MustDescribeOf[*Widget](
		metadata.Ctor(NewNamedWidget, metadata.Param(0, "item")),
	)

	ctors := td.Constructors()
	ctors[0] = nil
	require.NotNil(t, td.Constructors()[0])

	params := td.Constructors()[0].Parameters()
	items := params[0].Metadata()
	items[0] = "mutated"
	assert.Equal(t, []any{"item"}, td.Constructors()[0].Parameters()[0].Metadata())
}

func TestConstructorDescriptor_String(t *testing.T) {
	t.Parallel()

	td := metadata.MustDescribeOf[*Widget](metadata.Ctor(NewNamedWidget, metadata.Name("NewNamedWidget")))
	assert.Equal(t, "NewNamedWidget(*metadata_test.Gear, string)", td.Constructors()[0].String())
}
