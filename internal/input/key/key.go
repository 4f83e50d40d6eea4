package key

import "strings"

// Key names a physical key. Character keys are KeyRune with the character
// carried in Event.Rune.
type Key uint16

const (
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyRune
)

// names holds the display name of every named key, indexed by Key.
var names = [...]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyRune:      "Rune",
}

func (k Key) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// IsSpecial reports whether k is a named, non-character key.
func (k Key) IsSpecial() bool { return k != KeyNone && k != KeyRune }

// byName resolves lower-case key names, including a few short aliases.
var byName = func() map[string]Key {
	m := map[string]Key{
		"esc":    KeyEscape,
		"return": KeyEnter,
		"del":    KeyDelete,
		"ins":    KeyInsert,
		"pgup":   KeyPageUp,
		"pgdn":   KeyPageDown,
	}
	for k := KeyEscape; k < KeyRune; k++ {
		m[strings.ToLower(names[k])] = k
	}
	return m
}()

// KeyFromName looks up a key by name, ignoring case. Unknown names return
// KeyNone.
func KeyFromName(name string) Key {
	return byName[strings.ToLower(strings.TrimSpace(name))]
}
