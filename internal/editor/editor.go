// Package editor implements the editing surface: a cursor and selection over
// a document.Document, text insertion and deletion, and mark toggling.
//
// Every committed mutation bumps the version and notifies change listeners
// exactly once. Cursor and selection moves are not document changes.
package editor

import (
	"strings"

	"github.com/dshills/keynote/internal/document"
)

// Options configures an Editor.
type Options struct {
	ReadOnly bool
}

// Editor owns a document and the caret state used to edit it.
type Editor struct {
	doc *document.Document

	cursor    document.Point
	anchor    document.Point
	selecting bool

	// pending holds marks toggled with a collapsed selection; they apply to
	// the next insertion.
	pending    document.MarkSet
	hasPending bool

	readOnly  bool
	version   uint64
	listeners []ChangeFunc
}

// New creates an editor over doc. A nil doc starts from document.Default().
func New(doc *document.Document, opt Options) *Editor {
	if doc == nil {
		doc = document.Default()
	}
	doc.Normalize()
	return &Editor{
		doc:      doc,
		readOnly: opt.ReadOnly,
	}
}

// Document returns the document being edited. Callers must not mutate it.
func (e *Editor) Document() *document.Document { return e.doc }

// Version returns the number of committed changes.
func (e *Editor) Version() uint64 { return e.version }

// Cursor returns the caret position.
func (e *Editor) Cursor() document.Point { return e.cursor }

// ReadOnly reports whether mutations are blocked.
func (e *Editor) ReadOnly() bool { return e.readOnly }

// SetReadOnly toggles mutation blocking. Movement is always allowed.
func (e *Editor) SetReadOnly(ro bool) { e.readOnly = ro }

// OnChange registers a listener for committed changes.
func (e *Editor) OnChange(fn ChangeFunc) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// Selection returns the normalized selection, if one is active and non-empty.
func (e *Editor) Selection() (document.Range, bool) {
	if !e.selecting {
		return document.Range{}, false
	}
	r := document.Range{Start: e.anchor, End: e.cursor}.Normalize()
	if r.IsCollapsed() {
		return document.Range{}, false
	}
	return r, true
}

// SetSelection selects r, placing the cursor at r.End.
func (e *Editor) SetSelection(r document.Range) {
	e.anchor = e.doc.ClampPoint(r.Start)
	e.cursor = e.doc.ClampPoint(r.End)
	e.selecting = e.anchor != e.cursor
	e.clearPending()
}

// SetCursor moves the caret and clears the selection.
func (e *Editor) SetCursor(p document.Point) {
	e.cursor = e.doc.ClampPoint(p)
	e.selecting = false
	e.clearPending()
}

// ClearSelection drops the selection, keeping the cursor.
func (e *Editor) ClearSelection() {
	e.selecting = false
}

// ActiveMarks returns the marks the next typed character will carry. Over
// a selection that is the set of marks every selected run carries.
func (e *Editor) ActiveMarks() document.MarkSet {
	if e.hasPending {
		return e.pending.Clone()
	}
	r, ok := e.Selection()
	if !ok {
		return e.doc.MarksAt(e.cursor)
	}
	first := e.doc.MarksAt(document.Point{Block: r.Start.Block, Offset: r.Start.Offset + 1})
	var common document.MarkSet
	for _, m := range append(first.Sorted(), document.KnownMarks...) {
		if !common.Has(m) && e.doc.MarksIn(r, m) {
			common = common.With(m)
		}
	}
	return common
}

// ToggleMark toggles m over the selection. With no selection the toggle is
// remembered for the next insertion. It reports whether the document changed.
func (e *Editor) ToggleMark(m document.Mark) bool {
	if e.readOnly {
		return false
	}
	r, ok := e.Selection()
	if !ok {
		marks := e.ActiveMarks()
		if marks.Has(m) {
			marks = marks.Without(m)
		} else {
			marks = marks.With(m)
		}
		e.pending = marks
		e.hasPending = true
		return false
	}
	if !e.doc.ToggleMark(r, m) {
		return false
	}
	e.commit(true)
	return true
}

// InsertText inserts s at the cursor, replacing the selection. Newlines
// split the current block.
func (e *Editor) InsertText(s string) bool {
	if e.readOnly || s == "" {
		return false
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	marks := e.ActiveMarks()
	if r, ok := e.Selection(); ok {
		e.cursor = e.doc.DeleteRange(r)
		e.selecting = false
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			e.cursor = e.doc.SplitBlock(e.cursor)
		}
		e.cursor = e.doc.InsertText(e.cursor, line, marks)
	}
	e.pending = marks
	e.hasPending = true
	e.commit(false)
	return true
}

// SplitBlock breaks the current block at the cursor (Enter).
func (e *Editor) SplitBlock() bool {
	if e.readOnly {
		return false
	}
	if r, ok := e.Selection(); ok {
		e.cursor = e.doc.DeleteRange(r)
		e.selecting = false
	}
	e.cursor = e.doc.SplitBlock(e.cursor)
	e.clearPending()
	e.commit(false)
	return true
}

// DeleteBackward removes the selection or the character before the cursor,
// joining with the previous block at a block start.
func (e *Editor) DeleteBackward() bool {
	if e.readOnly {
		return false
	}
	if r, ok := e.Selection(); ok {
		return e.deleteRange(r)
	}
	start := e.prevPoint(e.cursor)
	if start == e.cursor {
		return false
	}
	return e.deleteRange(document.Range{Start: start, End: e.cursor})
}

// DeleteForward removes the selection or the character after the cursor.
func (e *Editor) DeleteForward() bool {
	if e.readOnly {
		return false
	}
	if r, ok := e.Selection(); ok {
		return e.deleteRange(r)
	}
	end := e.nextPoint(e.cursor)
	if end == e.cursor {
		return false
	}
	return e.deleteRange(document.Range{Start: e.cursor, End: end})
}

// Replace swaps in a new document, resetting the caret.
func (e *Editor) Replace(doc *document.Document) {
	if doc == nil {
		doc = document.Default()
	}
	doc.Normalize()
	e.doc = doc
	e.cursor = document.Point{}
	e.selecting = false
	e.clearPending()
	e.commit(false)
}

func (e *Editor) deleteRange(r document.Range) bool {
	e.cursor = e.doc.DeleteRange(r)
	e.selecting = false
	e.clearPending()
	e.commit(false)
	return true
}

func (e *Editor) clearPending() {
	e.pending = nil
	e.hasPending = false
}

func (e *Editor) commit(marksOnly bool) {
	e.version++
	ev := e.buildChangeEvent(marksOnly)
	for _, fn := range e.listeners {
		fn(ev)
	}
}
