package hotkey

import "github.com/dshills/keynote/internal/input/key"

// Table is an ordered, immutable binding list assembled at startup.
type Table struct {
	bindings []Binding
}

// NewTable copies bindings into a table, dropping later duplicates of the
// same chord. The first declaration wins, matching resolution order.
func NewTable(groups ...[]Binding) *Table {
	seen := make(map[chord]bool)
	var out []Binding
	for _, g := range groups {
		for _, b := range g {
			c := chord{key: b.Key, alt: b.Alt}
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, b)
		}
	}
	return &Table{bindings: out}
}

type chord struct {
	key string
	alt bool
}

// Bindings returns a copy of the table in resolution order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int { return len(t.bindings) }

// Lookup resolves ev with r against the table.
func (t *Table) Lookup(r Resolver, ev key.Event) (Binding, bool) {
	return r.Match(ev, t.bindings)
}
