package hotkey

import (
	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/input/key"
)

// Resolver matches key events against bindings.
type Resolver struct {
	primary key.Modifier
}

// NewResolver creates a resolver treating primary as the command modifier.
// ModNone selects key.ModMeta.
func NewResolver(primary key.Modifier) Resolver {
	if primary == key.ModNone {
		primary = key.ModMeta
	}
	return Resolver{primary: primary}
}

// Primary returns the modifier every binding requires.
func (r Resolver) Primary() key.Modifier { return r.primary }

// Resolve returns the mark of the first binding matched by ev. A binding
// matches when the primary modifier is held, the key identifier is equal and
// the Alt state equals the binding's Alt exactly.
func (r Resolver) Resolve(ev key.Event, bindings []Binding) (document.Mark, bool) {
	if b, ok := r.Match(ev, bindings); ok {
		return b.Mark, true
	}
	return "", false
}

// Match is Resolve returning the whole binding.
func (r Resolver) Match(ev key.Event, bindings []Binding) (Binding, bool) {
	if !ev.Modifiers.Has(r.primary) {
		return Binding{}, false
	}
	id := ev.Identifier()
	if id == "" {
		return Binding{}, false
	}
	alt := ev.Modifiers.HasAlt()
	for _, b := range bindings {
		if b.Key == id && b.Alt == alt {
			return b, true
		}
	}
	return Binding{}, false
}

// Resolve matches ev against bindings using the Meta key as primary.
func Resolve(ev key.Event, bindings []Binding) (document.Mark, bool) {
	return NewResolver(key.ModMeta).Resolve(ev, bindings)
}
