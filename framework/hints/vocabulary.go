package hints

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// Dependency requests a named registration for the parameter it is attached
// to. An empty Name is the default registration.
type Dependency struct {
	Name string
}

// AllowMultiple implements metadata.Attribute.
func (Dependency) AllowMultiple() bool { return false }

// OptionalDependency is a Dependency whose absence is tolerated.
type OptionalDependency struct {
	Name string
}

// AllowMultiple implements metadata.Attribute.
func (OptionalDependency) AllowMultiple() bool { return false }

// Tag carries hints in struct-tag syntax, the vocabulary used by fx-style
// parameter objects:
//
//	hints.Tag(`name:"audit"`)
//	hints.Tag(`name:"metrics" optional:"true"`)
type Tag string

// AllowMultiple implements metadata.Attribute.
func (Tag) AllowMultiple() bool { return false }

// Recognizer reports the Hint a single metadata item stands for, or false
// when the item is not a hint of its kind.
type Recognizer func(item any) (Hint, bool)

// Vocabulary is the registry of recognized hint kinds. It is safe for
// concurrent use; registration is expected at setup time.
type Vocabulary struct {
	mu          sync.RWMutex
	recognizers []Recognizer
}

// NewVocabulary returns a vocabulary recognizing only the given kinds.
func NewVocabulary(recognizers ...Recognizer) *Vocabulary {
	v := &Vocabulary{}
	for _, r := range recognizers {
		v.Register(r)
	}
	return v
}

// DefaultVocabulary recognizes Dependency, OptionalDependency and Tag.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(RecognizeDependency, RecognizeOptionalDependency, RecognizeTag)
}

// Register adds a hint kind and returns the vocabulary for chaining.
func (v *Vocabulary) Register(r Recognizer) *Vocabulary {
	if r == nil {
		return v
	}
	v.mu.Lock()
	v.recognizers = append(v.recognizers, r)
	v.mu.Unlock()
	return v
}

// Extract implements Extractor.
//
// Items are scanned in attachment order and the first recognized item wins.
// Declaring more than one hint on a parameter is an author-time mistake that
// metadata.Describe rejects for same-kind duplicates; mixed kinds fall back to
// first-match here.
func (v *Vocabulary) Extract(p *metadata.ParameterDescriptor) Hint {
	if p == nil {
		return None()
	}
	v.mu.RLock()
	recognizers := v.recognizers
	v.mu.RUnlock()

	for _, item := range p.Metadata() {
		for _, r := range recognizers {
			if h, ok := r(item); ok {
				return h
			}
		}
	}
	return None()
}

// RecognizeDependency recognizes Dependency and *Dependency items.
func RecognizeDependency(item any) (Hint, bool) {
	switch d := item.(type) {
	case Dependency:
		return Named(d.Name), true
	case *Dependency:
		if d != nil {
			return Named(d.Name), true
		}
	}
	return Hint{}, false
}

// RecognizeOptionalDependency recognizes OptionalDependency and
// *OptionalDependency items.
func RecognizeOptionalDependency(item any) (Hint, bool) {
	switch d := item.(type) {
	case OptionalDependency:
		return Optional(d.Name), true
	case *OptionalDependency:
		if d != nil {
			return Optional(d.Name), true
		}
	}
	return Hint{}, false
}

// RecognizeTag recognizes Tag items carrying a `name` or a true `optional`
// key. A tag with neither is not a hint.
func RecognizeTag(item any) (Hint, bool) {
	t, ok := item.(Tag)
	if !ok {
		return Hint{}, false
	}
	st := reflect.StructTag(t)
	name, hasName := st.Lookup("name")
	if raw, has := st.Lookup("optional"); has {
		if opt, err := strconv.ParseBool(raw); err == nil && opt {
			return Optional(name), true
		}
	}
	if hasName {
		return Named(name), true
	}
	return Hint{}, false
}
