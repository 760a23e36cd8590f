package selection

import (
	"strings"

	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/resolver"
)

// BuildPlan is the outcome of selection: the chosen constructor and one
// resolver policy per parameter, in parameter order.
type BuildPlan struct {
	Type        *metadata.TypeDescriptor
	Constructor *metadata.ConstructorDescriptor
	Resolvers   []resolver.Policy
}

// Equal reports whether both plans chose the same constructor with the same
// resolver sequence.
func (p *BuildPlan) Equal(o *BuildPlan) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Type != o.Type || p.Constructor != o.Constructor || len(p.Resolvers) != len(o.Resolvers) {
		return false
	}
	for i := range p.Resolvers {
		if !p.Resolvers[i].Equal(o.Resolvers[i]) {
			return false
		}
	}
	return true
}

// String renders the plan, e.g.
// "app.Widget <- NewWidget(app.Gear) [ResolveDefault(app.Gear)]".
func (p *BuildPlan) String() string {
	if p == nil {
		return "<nil plan>"
	}
	var b strings.Builder
	b.WriteString(p.Type.Name())
	b.WriteString(" <- ")
	b.WriteString(p.Constructor.String())
	b.WriteString(" [")
	for i, r := range p.Resolvers {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteString("]")
	return b.String()
}
