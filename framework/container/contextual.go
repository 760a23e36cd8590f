package container

import "reflect"

// ContextualBuilder implements the fluent contextual binding API.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.When("PhotoController").Needs("Filesystem").Give(func(c *container.Container) any {
//	    return filesystem.NewS3(...)
//	})
//
// Contextual bindings also apply to autowired constructors: the concrete is
// the abstract being autowired and the need is the parameter's AbstractOf key.
//
//	c.When(container.AbstractFor[*Widget]("")).
//	    NeedsType(reflect.TypeFor[Logger](), "").
//	    GiveValue(auditLogger)
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// Needs specifies which abstract the concrete depends on.
func (b *ContextualBuilder) Needs(abstract string) *ContextualBuilder {
	b.needs = abstract
	return b
}

// NeedsType is Needs(AbstractOf(t, name)).
func (b *ContextualBuilder) NeedsType(t reflect.Type, name string) *ContextualBuilder {
	return b.Needs(AbstractOf(t, name))
}

// Give provides the factory used when the concrete resolves the need.
func (b *ContextualBuilder) Give(factory Factory) {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()

	concrete := c.canonical(b.concrete)
	needs := c.canonical(b.needs)
	if _, ok := c.contextual[concrete]; !ok {
		c.contextual[concrete] = make(map[string]Factory)
	}
	c.contextual[concrete][needs] = factory
}

// GiveValue is Give for a pre-built value.
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("PhotoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(_ *Container) any { return value })
}
