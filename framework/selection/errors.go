package selection

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrConfiguration matches errors caused by malformed type metadata.
	ErrConfiguration = errors.New("selection: invalid type configuration")

	// ErrAmbiguousConstructor matches ties on the selection criterion.
	ErrAmbiguousConstructor = errors.New("selection: ambiguous constructor")

	// ErrNoAccessibleConstructor matches types without a usable constructor.
	ErrNoAccessibleConstructor = errors.New("selection: no accessible constructor")
)

// ConfigurationError reports type metadata that cannot be selected from,
// such as several constructors carrying the explicit marker. Err holds the
// specific cause.
type ConfigurationError struct {
	Type         string
	Constructors []string
	Err          error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	// Example: selection: invalid configuration of app.Widget [NewA(), NewB()]: ...
	msg := "selection: invalid configuration of " + e.Type
	if len(e.Constructors) > 0 {
		msg += " [" + strings.Join(e.Constructors, ", ") + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// AmbiguousConstructorError reports more than one constructor tying for the
// selection criterion. Marked is true when the tie is between explicitly
// marked constructors; otherwise Arity is the tied parameter count.
type AmbiguousConstructorError struct {
	Type         string
	Arity        int
	Marked       bool
	Constructors []string
}

// Error implements the error interface.
func (e *AmbiguousConstructorError) Error() string {
	var b strings.Builder
	b.WriteString("selection: ambiguous constructor for ")
	b.WriteString(e.Type)
	if e.Marked {
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(len(e.Constructors)))
		b.WriteString(" constructors are marked for injection")
	} else {
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(len(e.Constructors)))
		b.WriteString(" constructors tie at ")
		b.WriteString(strconv.Itoa(e.Arity))
		b.WriteString(" parameters")
	}
	if len(e.Constructors) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Constructors, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Is matches ErrAmbiguousConstructor.
func (e *AmbiguousConstructorError) Is(target error) bool { return target == ErrAmbiguousConstructor }

// NoAccessibleConstructorError reports a type with no public constructor.
type NoAccessibleConstructorError struct {
	Type string
}

// Error implements the error interface.
func (e *NoAccessibleConstructorError) Error() string {
	return "selection: no accessible constructor for " + e.Type
}

// Is matches ErrNoAccessibleConstructor.
func (e *NoAccessibleConstructorError) Is(target error) bool {
	return target == ErrNoAccessibleConstructor
}
