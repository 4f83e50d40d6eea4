// Package key models key presses and the chord syntax used to describe
// hotkeys ("Meta+b", "Meta+Alt+c", "Ctrl+Shift+Left").
//
// Event.Identifier is what hotkey bindings compare against: the lower-cased
// rune for character keys and the lower-case key name for named keys.
package key
