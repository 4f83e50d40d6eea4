// Package hotkey maps keyboard chords to inline formatting marks.
//
// A Binding pairs a key identifier with a mark and an exact Alt requirement;
// every binding implicitly requires the primary modifier. Resolve walks the
// bindings in declaration order and returns the first match:
//
//	bindings := hotkey.DefaultBindings()
//	r := hotkey.NewResolver(key.ModMeta)
//	if mark, ok := r.Resolve(ev, bindings); ok {
//		// suppress insertion, toggle mark
//	}
//
// Bindings can also be written as chord specs ("Meta+Alt+c") and parsed with
// ParseBinding.
package hotkey
