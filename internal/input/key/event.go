package key

import (
	"strings"
	"unicode"
)

// Event is one key press as seen by the hotkey resolver and the editor.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewEvent builds an event from its parts.
func NewEvent(k Key, r rune, mods Modifier) Event {
	return Event{Key: k, Rune: r, Modifiers: mods}
}

// NewRuneEvent builds a character event.
func NewRuneEvent(r rune, mods Modifier) Event { return NewEvent(KeyRune, r, mods) }

// NewSpecialEvent builds a named-key event.
func NewSpecialEvent(k Key, mods Modifier) Event { return NewEvent(k, 0, mods) }

// IsRune reports whether the event carries a character.
func (e Event) IsRune() bool { return e.Key == KeyRune && e.Rune != 0 }

// IsChar reports whether the event carries a printable character.
func (e Event) IsChar() bool { return e.IsRune() && unicode.IsPrint(e.Rune) }

// IsModified reports whether a command modifier is held. Shift only counts
// on named keys; on characters it is part of the character.
func (e Event) IsModified() bool {
	mods := e.Modifiers
	if e.IsRune() {
		mods = mods.Without(ModShift)
	}
	return !mods.IsEmpty()
}

// Identifier is the name bindings are compared against: the lower-cased
// character for rune events, the lower-case key name ("enter", "f2")
// otherwise, and "" for an empty event.
func (e Event) Identifier() string {
	switch {
	case e.IsRune():
		return string(unicode.ToLower(e.Rune))
	case e.Key == KeyNone:
		return ""
	default:
		return strings.ToLower(e.Key.String())
	}
}

// String formats the event as a chord such as "Meta+Alt+c" or "Shift+Left".
func (e Event) String() string {
	if e.IsRune() {
		return chord(e.Modifiers.Without(ModShift), e.Identifier())
	}
	return chord(e.Modifiers, e.Key.String())
}

func chord(mods Modifier, name string) string {
	if mods.IsEmpty() {
		return name
	}
	return mods.String() + "+" + name
}
