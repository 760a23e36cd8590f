package hints

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ConfigEntry declares the hint of one parameter in a hints file.
//
//	hints:
//	  - type: app.Widget
//	    constructor: app.NewWidget   # optional, any constructor when empty
//	    position: 1
//	    name: audit
//	    optional: false
type ConfigEntry struct {
	Type        string `yaml:"type"`
	Constructor string `yaml:"constructor"`
	Position    *int   `yaml:"position"`
	Name        string `yaml:"name"`
	Optional    bool   `yaml:"optional"`
}

type configFile struct {
	Hints []ConfigEntry `yaml:"hints"`
}

type configKey struct {
	owner    string
	ctor     string
	position int
}

// ConfigVocabulary is an Extractor backed by hints declared outside the code,
// keyed by owner type, constructor name and parameter position.
type ConfigVocabulary struct {
	entries map[configKey]Hint
}

// LoadConfig reads a YAML hints file.
func LoadConfig(path string) (*ConfigVocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hints: read %s: %w", path, err)
	}
	cv, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("hints: %s: %w", path, err)
	}
	return cv, nil
}

// ParseConfig parses a YAML hints document. Entries without a type, without
// or with a negative position, or declaring the same parameter twice are rejected.
func ParseConfig(data []byte) (*ConfigVocabulary, error) {
	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse hints: %w", err)
	}

	cv := &ConfigVocabulary{entries: make(map[configKey]Hint, len(f.Hints))}
	for i, e := range f.Hints {
		if e.Type == "" {
			return nil, fmt.Errorf("hint %d: type is required", i)
		}
		if e.Position == nil {
			return nil, fmt.Errorf("hint %d: position is required", i)
		}
		pos := *e.Position
		if pos < 0 {
			return nil, fmt.Errorf("hint %d: negative position %d", i, pos)
		}
		if !e.Optional && e.Name == "" {
			return nil, fmt.Errorf("hint %d: a non-optional hint needs a name", i)
		}
		key := configKey{owner: e.Type, ctor: e.Constructor, position: pos}
		if _, dup := cv.entries[key]; dup {
			return nil, fmt.Errorf("hint %d: parameter %d of %s declared twice", i, pos, e.Type)
		}
		if e.Optional {
			cv.entries[key] = Optional(e.Name)
		} else {
			cv.entries[key] = Named(e.Name)
		}
	}
	return cv, nil
}

// Len returns the number of declared hints.
func (cv *ConfigVocabulary) Len() int { return len(cv.entries) }

// Extract implements Extractor. A constructor-specific entry takes precedence
// over a type-wide one.
func (cv *ConfigVocabulary) Extract(p *metadata.ParameterDescriptor) Hint {
	if cv == nil || p == nil {
		return None()
	}
	if h, ok := cv.entries[configKey{owner: p.Owner(), ctor: p.Constructor(), position: p.Position()}]; ok {
		return h
	}
	if h, ok := cv.entries[configKey{owner: p.Owner(), position: p.Position()}]; ok {
		return h
	}
	return None()
}
