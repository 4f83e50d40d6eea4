package app

import (
	"github.com/dshills/keynote/internal/editor"
	"github.com/dshills/keynote/internal/input/key"
	"github.com/dshills/keynote/internal/renderer"
	"github.com/dshills/keynote/internal/renderer/backend"
)

// handleEvent processes one backend event on the loop goroutine.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		if app.pasting {
			app.bufferPaste(ev.Key)
			return nil
		}
		return app.handleKey(ev.Key)
	case backend.EventPasteStart:
		app.pasting = true
		app.paste.Reset()
	case backend.EventPasteEnd:
		app.pasting = false
		if app.paste.Len() > 0 {
			app.edited(app.surface.InsertText(app.paste.String()))
			app.paste.Reset()
		}
	case backend.EventResize:
		// The next draw picks up the new size.
	}
	return nil
}

// handleKey applies hotkeys first, then application chords, then editing
// keys, then printable insertion.
func (app *Application) handleKey(ev key.Event) error {
	if b, ok := app.table.Lookup(app.resolver, ev); ok {
		app.logger.Debug("hotkey %s -> %s", ev, b.Mark)
		app.edited(app.surface.ToggleMark(b.Mark))
		return nil
	}

	switch {
	case ctrlChord(ev, 'q'):
		return ErrQuit
	case ctrlChord(ev, 's'):
		if err := app.save(app.surface.Document()); err == nil {
			app.setMessage("saved", false)
		}
		return nil
	case ctrlChord(ev, 'r'):
		ro := !app.surface.ReadOnly()
		app.surface.SetReadOnly(ro)
		if ro {
			app.setMessage("read-only", false)
		} else {
			app.setMessage("editing enabled", false)
		}
		return nil
	case ev.Key == key.KeyF2 && ev.Modifiers.IsEmpty():
		app.showSidebar = !app.showSidebar
		return nil
	case ev.Key == key.KeyF5 && ev.Modifiers.IsEmpty():
		app.reload()
		return nil
	}

	if app.handleEditingKey(ev) {
		return nil
	}

	if ev.IsChar() && !ev.IsModified() {
		app.edited(app.surface.InsertText(string(ev.Rune)))
	}
	return nil
}

var moves = map[key.Key]editor.Direction{
	key.KeyLeft:  editor.DirLeft,
	key.KeyRight: editor.DirRight,
	key.KeyHome:  editor.DirHome,
	key.KeyEnd:   editor.DirEnd,
}

func (app *Application) handleEditingKey(ev key.Event) bool {
	switch ev.Key {
	case key.KeyUp:
		app.moveRow(-1, ev.Modifiers.HasShift())
		return true
	case key.KeyDown:
		app.moveRow(1, ev.Modifiers.HasShift())
		return true
	}
	if dir, ok := moves[ev.Key]; ok {
		app.surface.Move(dir, ev.Modifiers.HasShift())
		return true
	}
	switch ev.Key {
	case key.KeyEnter:
		app.edited(app.surface.SplitBlock())
	case key.KeyBackspace:
		app.edited(app.surface.DeleteBackward())
	case key.KeyDelete:
		app.edited(app.surface.DeleteForward())
	case key.KeyTab:
		app.edited(app.surface.InsertText("\t"))
	case key.KeyEscape:
		app.surface.ClearSelection()
	default:
		return false
	}
	return true
}

// moveRow moves the caret delta screen rows, keeping its column, so
// wrapped paragraphs are walked one row at a time.
func (app *Application) moveRow(delta int, extend bool) {
	width, _ := app.backend.Size()
	if width <= 0 {
		dir := editor.DirDown
		if delta < 0 {
			dir = editor.DirUp
		}
		app.surface.Move(dir, extend)
		return
	}
	l := renderer.NewLayout(app.surface.Document(), app.renderer.Schema(), renderer.DocWidth(width, app.showSidebar))
	row, col := l.Locate(app.surface.Cursor())
	target := row + delta
	if target < 0 || target >= len(l.Lines) {
		if !extend {
			app.surface.ClearSelection()
		}
		return
	}
	app.surface.MoveTo(l.PointAt(target, col), extend)
}

func (app *Application) bufferPaste(ev key.Event) {
	switch {
	case ev.IsRune():
		app.paste.WriteRune(ev.Rune)
	case ev.Key == key.KeyEnter:
		app.paste.WriteByte('\n')
	case ev.Key == key.KeyTab:
		app.paste.WriteByte('\t')
	}
}

// edited reports refused edits on a read-only surface.
func (app *Application) edited(ok bool) {
	if !ok && app.surface.ReadOnly() {
		app.setMessage(ErrReadOnly.Error(), false)
	}
}

func ctrlChord(ev key.Event, r rune) bool {
	return ev.Key == key.KeyRune && ev.Identifier() == string(r) &&
		ev.Modifiers.Without(key.ModShift) == key.ModCtrl
}
