package inspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/hints"
	"github.com/km-arc/go-autowire/framework/inspect"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/routing"
)

type Engine struct{}

type Car struct {
	Engine *Engine
	Radio  *Radio
}

type Radio struct{}

func NewEngine() *Engine              { return &Engine{} }
func NewCar(e *Engine, r *Radio) *Car { return &Car{Engine: e, Radio: r} }
func NewBareCar() *Car                { return &Car{} }

func setup(t *testing.T) *routing.Router {
	t.Helper()
	c := container.New()
	require.NoError(t, container.AutowireType[*Engine](c, true, metadata.Ctor(NewEngine)))
	require.NoError(t, container.AutowireType[*Car](c, false,
		metadata.Ctor(NewCar, metadata.Param(1, hints.OptionalDependency{})),
		metadata.Ctor(NewBareCar),
	))

	r := routing.New(nil)
	r.Mount(inspect.Prefix, inspect.New(c, nil).Routes())
	return r
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func get[T any](t *testing.T, r http.Handler, path string) (int, envelope[T]) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var body envelope[T]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return rr.Code, body
}

func TestInspector_List(t *testing.T) {
	t.Parallel()
	r := setup(t)

	code, body := get[[]inspect.PlanView](t, r, "/container/plans")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Data, 2)

	car := body.Data[0]
	assert.Equal(t, "*inspect_test.Car", car.Abstract)
	assert.Equal(t, "inspect_test.NewCar(*inspect_test.Engine, *inspect_test.Radio)", car.Constructor)
	require.Len(t, car.Parameters, 2)
	assert.Equal(t, inspect.ParameterView{Position: 0, Type: "*inspect_test.Engine", Policy: "default", Resolvable: true}, car.Parameters[0])
	assert.Equal(t, "optional", car.Parameters[1].Policy)
	assert.False(t, car.Parameters[1].Resolvable)

	assert.Equal(t, "*inspect_test.Engine", body.Data[1].Abstract)
	assert.Empty(t, body.Data[1].Parameters)
}

func TestInspector_Show(t *testing.T) {
	t.Parallel()
	r := setup(t)

	code, body := get[inspect.PlanView](t, r, "/container/plans/"+url.PathEscape("*inspect_test.Engine"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "inspect_test.NewEngine()", body.Data.Constructor)
	assert.False(t, body.Data.Marked)
}

func TestInspector_Show_NotFound(t *testing.T) {
	t.Parallel()
	r := setup(t)

	code, body := get[inspect.PlanView](t, r, "/container/plans/unknown.Thing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no build plan for [unknown.Thing]", body.Message)
}
