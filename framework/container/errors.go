package container

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrBindingNotFound matches lookups of abstracts nobody registered.
	ErrBindingNotFound = errors.New("container: binding not found")

	// ErrTypeMismatch matches resolved values that do not fit the requested type.
	ErrTypeMismatch = errors.New("container: type mismatch")

	// ErrCircularDependency matches resolutions that depend on themselves.
	ErrCircularDependency = errors.New("container: circular dependency")
)

// BindingNotFoundError is raised when Make finds no binding, instance or
// contextual factory for an abstract.
type BindingNotFoundError struct {
	Abstract string
}

// Error implements the error interface.
func (e *BindingNotFoundError) Error() string {
	return "container: no binding registered for [" + e.Abstract + "]"
}

// Is matches ErrBindingNotFound.
func (e *BindingNotFoundError) Is(target error) bool { return target == ErrBindingNotFound }

// CircularDependencyError is raised when an abstract is requested while it
// is already being built by the same resolution. Path runs from the
// outermost abstract to the repeated one.
type CircularDependencyError struct {
	Path []string
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Path, " -> ")
}

// Is matches ErrCircularDependency.
func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ResolutionError is raised when an autowired constructor could not be
// called. Parameter is the failing argument position, or -1 when the
// constructor itself returned the error.
type ResolutionError struct {
	Abstract    string
	Constructor string
	Parameter   int
	Err         error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	// Example: container: building [app.Widget] with NewWidget(app.Gear): parameter 0: ...
	msg := "container: building [" + e.Abstract + "] with " + e.Constructor
	if e.Parameter >= 0 {
		msg += ": parameter " + strconv.Itoa(e.Parameter)
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *ResolutionError) Unwrap() error { return e.Err }
