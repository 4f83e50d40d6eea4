// Package plugin runs Lua scripts that contribute mark hotkeys.
//
// A script sees one module, notepad:
//
//	notepad.mark_hotkey{key = "h", type = "underline", alt = false}
//	notepad.mark_hotkey("Meta+Alt+h", "underline")
//	notepad.log("loaded")
//
// Each script runs in its own sandboxed state. If a script fails, every
// binding it registered is discarded and the error is logged.
package plugin
