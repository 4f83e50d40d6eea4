package editor

import "github.com/dshills/keynote/internal/document"

// ChangeEvent describes one committed change to the document.
type ChangeEvent struct {
	Version  uint64
	Document *document.Document
	Cursor   document.Point

	Selection struct {
		Range  document.Range
		Active bool
	}

	// MarksOnly is set when the change only toggled formatting.
	MarksOnly bool
}

// ChangeFunc receives change events. Listeners run synchronously on the
// goroutine that mutated the editor and must not retain the document.
type ChangeFunc func(ChangeEvent)

func (e *Editor) buildChangeEvent(marksOnly bool) ChangeEvent {
	ev := ChangeEvent{
		Version:   e.version,
		Document:  e.doc,
		Cursor:    e.cursor,
		MarksOnly: marksOnly,
	}
	if r, ok := e.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	return ev
}
