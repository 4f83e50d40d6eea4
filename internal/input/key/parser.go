package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// runeAliases name characters that cannot be written literally in a chord.
var runeAliases = map[string]rune{
	"space": ' ',
	"plus":  '+',
}

// Parse reads a chord such as "b", "F2", "Meta+b" or "Ctrl+Shift+Left".
// Every part but the last is a modifier. An upper-case letter implies
// Shift; "space" and "plus" name those characters.
func Parse(spec string) (Event, error) {
	if strings.TrimSpace(spec) == "" {
		return Event{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	last := strings.TrimSpace(parts[len(parts)-1])

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m := ModifierFromName(p)
		if m == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods |= m
	}

	if last == "" {
		return Event{}, fmt.Errorf("%w: %q has no key", ErrInvalidSpec, spec)
	}
	if r, ok := runeAliases[strings.ToLower(last)]; ok {
		return NewRuneEvent(r, mods), nil
	}
	if k := KeyFromName(last); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if rs := []rune(last); len(rs) == 1 {
		if unicode.IsUpper(rs[0]) {
			mods |= ModShift
		}
		return NewRuneEvent(unicode.ToLower(rs[0]), mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, last)
}

// MustParse is Parse for chords known to be valid.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic(fmt.Sprintf("key: MustParse(%q): %v", spec, err))
	}
	return ev
}
