// Package config loads keynote settings.
//
// Settings are layered: built-in defaults, then a TOML or YAML file chosen by
// extension, then KEYNOTE_* environment variables. Each layer is a nested
// map merged over the previous one with DeepMerge; the result is decoded into
// Config with mapstructure and validated.
//
// Example keynote.toml:
//
//	[store]
//	backend = "sqlite"
//	path = "~/.local/share/keynote/keynote.db"
//
//	[hotkeys]
//	primary = "ctrl"
//	bindings = [
//	  { chord = "Ctrl+h", mark = "underline" },
//	]
package config
