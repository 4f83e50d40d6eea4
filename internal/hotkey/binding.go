package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/input/key"
)

// Binding errors.
var (
	ErrNoPrimary   = errors.New("binding does not hold the primary modifier")
	ErrExtraMod    = errors.New("binding uses a modifier other than primary and alt")
	ErrEmptyMark   = errors.New("binding has no mark")
	ErrInvalidMark = errors.New("invalid mark name")
)

// Binding maps a primary-modified chord to a mark. Bindings are values and
// are never mutated after construction.
type Binding struct {
	// Key is the key identifier, as returned by key.Event.Identifier.
	Key string

	// Mark is the formatting mark toggled on match.
	Mark document.Mark

	// Alt is the exact Alt state required.
	Alt bool

	// Source records where the binding came from ("default", "config", a
	// plugin name). It does not take part in matching.
	Source string
}

// NewBinding creates a binding that requires the primary modifier only.
func NewBinding(k string, mark document.Mark) Binding {
	return Binding{Key: strings.ToLower(k), Mark: mark}
}

// WithAlt returns a copy of the binding that requires Alt.
func (b Binding) WithAlt() Binding {
	b.Alt = true
	return b
}

// WithSource returns a copy of the binding tagged with its origin.
func (b Binding) WithSource(src string) Binding {
	b.Source = src
	return b
}

// Spec formats the binding as a chord using the given primary modifier name.
func (b Binding) Spec(primary key.Modifier) string {
	mods := primary
	if b.Alt {
		mods = mods.With(key.ModAlt)
	}
	return mods.String() + "+" + b.Key
}

// String returns the chord with a generic "Primary" prefix.
func (b Binding) String() string {
	s := "Primary+"
	if b.Alt {
		s += "Alt+"
	}
	return s + b.Key + " → " + string(b.Mark)
}

// DefaultBindings returns the built-in table in resolution order.
func DefaultBindings() []Binding {
	return []Binding{
		NewBinding("b", document.MarkBold).WithSource("default"),
		NewBinding("c", document.MarkCode).WithAlt().WithSource("default"),
		NewBinding("i", document.MarkItalic).WithSource("default"),
		NewBinding("d", document.MarkStrikethrough).WithSource("default"),
		NewBinding("u", document.MarkUnderline).WithSource("default"),
	}
}

// ParseMark trims and checks a mark name. Marks outside
// document.KnownMarks are allowed; they toggle and persist but render
// without styling.
func ParseMark(name string) (document.Mark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyMark
	}
	if strings.ContainsAny(name, " \t\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidMark, name)
	}
	return document.Mark(name), nil
}

// ParseBinding parses a chord spec such as "Meta+Alt+c" into a binding for
// mark. The chord must hold primary and may add Alt; Shift is folded into
// the key identifier and any other modifier is rejected.
func ParseBinding(spec string, mark string, primary key.Modifier) (Binding, error) {
	m, err := ParseMark(mark)
	if err != nil {
		return Binding{}, fmt.Errorf("%w (chord %q)", err, spec)
	}

	ev, err := key.Parse(spec)
	if err != nil {
		return Binding{}, err
	}
	mods := ev.Modifiers.Without(key.ModShift)
	if !mods.Has(primary) {
		return Binding{}, fmt.Errorf("%w: %q", ErrNoPrimary, spec)
	}
	if extra := mods.Without(primary).Without(key.ModAlt); !extra.IsEmpty() {
		return Binding{}, fmt.Errorf("%w: %q uses %s", ErrExtraMod, spec, extra)
	}

	return Binding{Key: ev.Identifier(), Mark: m, Alt: mods.HasAlt()}, nil
}
