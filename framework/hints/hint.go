// Package hints extracts dependency-resolution hints from the metadata items
// attached to constructor parameters.
//
// A parameter carries zero or one hint:
//
//	hints.None()            // resolve the parameter type's default registration
//	hints.Named("audit")    // resolve the registration named "audit"
//	hints.Optional("")      // resolve the default registration, tolerate absence
//
// Which metadata items count as hints is decided by an Extractor. The default
// Vocabulary recognizes Dependency, OptionalDependency and Tag items; other
// vocabularies (for example ConfigVocabulary, loaded from YAML) plug in through
// the same interface and can be combined with Chain.
package hints

import (
	"strconv"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// Kind discriminates the Hint variant.
type Kind uint8

const (
	KindNone Kind = iota
	KindNamed
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNamed:
		return "named"
	case KindOptional:
		return "optional"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Hint is the resolution hint of one parameter. Name is meaningful for
// KindNamed and KindOptional; an empty Name on an optional hint means the
// default registration.
type Hint struct {
	Kind Kind
	Name string
}

// None is the hint of an unannotated parameter.
func None() Hint { return Hint{Kind: KindNone} }

// Named requests the registration called name.
func Named(name string) Hint { return Hint{Kind: KindNamed, Name: name} }

// Optional requests the registration called name (default when empty) and
// tolerates its absence.
func Optional(name string) Hint { return Hint{Kind: KindOptional, Name: name} }

// IsNone reports whether h carries no hint.
func (h Hint) IsNone() bool { return h.Kind == KindNone }

func (h Hint) String() string {
	switch h.Kind {
	case KindNone:
		return "None"
	case KindNamed:
		return "Named(" + strconv.Quote(h.Name) + ")"
	case KindOptional:
		if h.Name == "" {
			return "Optional(<default>)"
		}
		return "Optional(" + strconv.Quote(h.Name) + ")"
	default:
		return h.Kind.String()
	}
}

// Extractor maps a parameter's metadata to a Hint. Implementations must be
// side-effect free and must not fail: absence of a hint is reported as None.
type Extractor interface {
	Extract(p *metadata.ParameterDescriptor) Hint
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(p *metadata.ParameterDescriptor) Hint

// Extract implements Extractor.
func (f ExtractorFunc) Extract(p *metadata.ParameterDescriptor) Hint { return f(p) }

// Chain returns an Extractor that asks each extractor in turn and returns
// the first hint that is not None.
func Chain(extractors ...Extractor) Extractor {
	list := make([]Extractor, 0, len(extractors))
	for _, e := range extractors {
		if e != nil {
			list = append(list, e)
		}
	}
	return ExtractorFunc(func(p *metadata.ParameterDescriptor) Hint {
		for _, e := range list {
			if h := e.Extract(p); !h.IsNone() {
				return h
			}
		}
		return None()
	})
}
