package key

import (
	"fmt"
	"strings"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	// ModMeta is Cmd on macOS.
	ModMeta
)

// modifierOrder fixes the order modifiers are printed in chords.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModMeta, "Meta"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
}

// Has reports whether every bit of mod is held.
func (m Modifier) Has(mod Modifier) bool { return mod != ModNone && m&mod == mod }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With adds mod.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without clears mod.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// IsEmpty reports whether nothing is held.
func (m Modifier) IsEmpty() bool { return m == ModNone }

// String joins the held modifiers with "+", e.g. "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// modifierAliases accepts the spellings used in chord specs and config.
var modifierAliases = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
}

// ModifierFromName looks up a single modifier name, ignoring case.
// Unknown names return ModNone.
func ModifierFromName(name string) Modifier {
	return modifierAliases[strings.ToLower(strings.TrimSpace(name))]
}

// ParsePrimary parses the name of a primary hotkey modifier. Only Meta and
// Ctrl can serve as primary; an empty name means Meta.
func ParsePrimary(name string) (Modifier, error) {
	if strings.TrimSpace(name) == "" {
		return ModMeta, nil
	}
	switch m := ModifierFromName(name); m {
	case ModMeta, ModCtrl:
		return m, nil
	default:
		return ModNone, fmt.Errorf("primary modifier %q must be meta or ctrl", name)
	}
}
