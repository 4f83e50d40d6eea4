package editor

import (
	"testing"

	"github.com/dshills/keynote/internal/document"
)

func newEditor(t *testing.T, text string) (*Editor, *[]ChangeEvent) {
	t.Helper()
	e := New(nil, Options{})
	var events []ChangeEvent
	e.OnChange(func(ev ChangeEvent) { events = append(events, ev) })
	if text != "" {
		e.InsertText(text)
		events = events[:0]
	}
	return e, &events
}

func TestNewStartsFromDefault(t *testing.T) {
	e := New(nil, Options{})
	if !document.Equal(e.Document(), document.Default()) {
		t.Error("New(nil) should start from the default document")
	}
	if e.Version() != 0 {
		t.Errorf("Version() = %d, want 0", e.Version())
	}
}

func TestInsertTextCommitsOnce(t *testing.T) {
	e, events := newEditor(t, "")
	if !e.InsertText("hello\nworld") {
		t.Fatal("InsertText should succeed")
	}
	if got := e.Document().Text(); got != "hello\nworld" {
		t.Errorf("Text() = %q", got)
	}
	if len(*events) != 1 {
		t.Fatalf("got %d change events, want 1", len(*events))
	}
	if got := e.Cursor(); got != (document.Point{Block: 1, Offset: 5}) {
		t.Errorf("Cursor() = %v, want {1 5}", got)
	}
}

func TestToggleMarkOnSelectionEmitsChange(t *testing.T) {
	e, events := newEditor(t, "hello")
	e.SetSelection(document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 5}})

	if !e.ToggleMark(document.MarkBold) {
		t.Fatal("ToggleMark should change the document")
	}
	if len(*events) != 1 || !(*events)[0].MarksOnly {
		t.Fatalf("events = %+v, want one marks-only change", *events)
	}
	if !(*events)[0].Selection.Active {
		t.Error("change event should carry the selection")
	}
	leaf := e.Document().Nodes[0].Nodes[0]
	if !leaf.Marks.Has(document.MarkBold) {
		t.Error("selection should be bold")
	}

	e.ToggleMark(document.MarkBold)
	if e.Document().Nodes[0].Nodes[0].Marks.Has(document.MarkBold) {
		t.Error("second toggle should remove bold")
	}
}

func TestToggleMarkCollapsedAppliesToNextInsert(t *testing.T) {
	e, events := newEditor(t, "ab")
	if e.ToggleMark(document.MarkItalic) {
		t.Error("collapsed toggle should not report a document change")
	}
	if len(*events) != 0 {
		t.Fatalf("collapsed toggle emitted %d events", len(*events))
	}
	if !e.ActiveMarks().Has(document.MarkItalic) {
		t.Error("pending italic should be active")
	}

	e.InsertText("cd")
	leaves := e.Document().Nodes[0].Nodes
	if len(leaves) != 2 || leaves[1].Text != "cd" || !leaves[1].Marks.Has(document.MarkItalic) {
		t.Errorf("leaves = %+v, want italic cd", leaves)
	}

	e.InsertText("e")
	if got := e.Document().Nodes[0].Nodes[1].Text; got != "cde" {
		t.Errorf("continued typing should keep the pending marks, got %q", got)
	}
}

func TestInsertInheritsMarksOfPreviousCharacter(t *testing.T) {
	e, _ := newEditor(t, "ab")
	e.SetSelection(document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 2}})
	e.ToggleMark(document.MarkBold)
	e.SetCursor(document.Point{Offset: 2})
	e.InsertText("c")

	leaves := e.Document().Nodes[0].Nodes
	if len(leaves) != 1 || leaves[0].Text != "abc" || !leaves[0].Marks.Has(document.MarkBold) {
		t.Errorf("leaves = %+v, want bold abc", leaves)
	}
}

func TestReadOnlyBlocksMutations(t *testing.T) {
	e, events := newEditor(t, "abc")
	e.SetReadOnly(true)
	e.SetSelection(document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 3}})

	if e.InsertText("x") || e.DeleteBackward() || e.DeleteForward() || e.SplitBlock() || e.ToggleMark(document.MarkBold) {
		t.Error("read-only editor accepted a mutation")
	}
	if len(*events) != 0 {
		t.Errorf("read-only editor emitted %d events", len(*events))
	}
	e.Move(DirLeft, false)
	if got := e.Cursor(); got != (document.Point{Offset: 0}) {
		t.Errorf("movement should still work, cursor = %v", got)
	}
}

func TestDeleteBackwardJoinsBlocks(t *testing.T) {
	e, _ := newEditor(t, "ab\ncd")
	e.SetCursor(document.Point{Block: 1, Offset: 0})
	if !e.DeleteBackward() {
		t.Fatal("DeleteBackward should join the blocks")
	}
	if got := e.Document().Text(); got != "abcd" {
		t.Errorf("Text() = %q, want abcd", got)
	}
	if got := e.Cursor(); got != (document.Point{Block: 0, Offset: 2}) {
		t.Errorf("Cursor() = %v, want {0 2}", got)
	}
}

func TestDeleteAtBoundsIsNoop(t *testing.T) {
	e, events := newEditor(t, "ab")
	e.SetCursor(document.Point{})
	if e.DeleteBackward() {
		t.Error("DeleteBackward at document start should do nothing")
	}
	e.SetCursor(document.Point{Offset: 2})
	if e.DeleteForward() {
		t.Error("DeleteForward at document end should do nothing")
	}
	if len(*events) != 0 {
		t.Errorf("no-op deletes emitted %d events", len(*events))
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	e, _ := newEditor(t, "hello world")
	e.SetSelection(document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 5}})
	e.InsertText("bye")
	if got := e.Document().Text(); got != "bye world" {
		t.Errorf("Text() = %q, want %q", got, "bye world")
	}
}

func TestMoveAndExtend(t *testing.T) {
	e, _ := newEditor(t, "ab\ncde")
	e.SetCursor(document.Point{Block: 0, Offset: 1})

	e.Move(DirRight, true)
	e.Move(DirRight, true)
	r, ok := e.Selection()
	if !ok {
		t.Fatal("extend should create a selection")
	}
	want := document.Range{Start: document.Point{Block: 0, Offset: 1}, End: document.Point{Block: 1, Offset: 0}}
	if r != want {
		t.Errorf("Selection() = %v, want %v", r, want)
	}

	e.Move(DirLeft, false)
	if _, ok := e.Selection(); ok {
		t.Error("plain move should collapse the selection")
	}
	if got := e.Cursor(); got != want.Start {
		t.Errorf("collapse left should land on selection start, got %v", got)
	}

	e.Move(DirDown, false)
	e.Move(DirEnd, false)
	if got := e.Cursor(); got != (document.Point{Block: 1, Offset: 3}) {
		t.Errorf("Cursor() = %v, want {1 3}", got)
	}
	e.Move(DirUp, false)
	if got := e.Cursor(); got != (document.Point{Block: 0, Offset: 2}) {
		t.Errorf("up should clamp the offset, got %v", got)
	}
	e.Move(DirHome, false)
	if got := e.Cursor(); got != (document.Point{}) {
		t.Errorf("Cursor() = %v, want origin", got)
	}
}

func TestReplace(t *testing.T) {
	e, events := newEditor(t, "old")
	e.Replace(document.New(document.NewBlock(document.TypeHeader, document.NewText("new"))))
	if got := e.Document().Text(); got != "new" {
		t.Errorf("Text() = %q", got)
	}
	if len(*events) != 1 {
		t.Errorf("Replace emitted %d events, want 1", len(*events))
	}
	if got := e.Cursor(); got != (document.Point{}) {
		t.Errorf("Cursor() = %v, want origin", got)
	}
}

func TestMoveTo(t *testing.T) {
	e, _ := newEditor(t, "hello\nworld")

	e.MoveTo(document.Point{Block: 0, Offset: 3}, false)
	if _, ok := e.Selection(); ok {
		t.Error("plain MoveTo should not select")
	}
	e.MoveTo(document.Point{Block: 1, Offset: 2}, true)
	r, ok := e.Selection()
	want := document.Range{Start: document.Point{Block: 0, Offset: 3}, End: document.Point{Block: 1, Offset: 2}}
	if !ok || r != want {
		t.Errorf("Selection() = %v, %v, want %v", r, ok, want)
	}

	e.MoveTo(document.Point{Block: 7, Offset: 99}, false)
	if _, ok := e.Selection(); ok {
		t.Error("plain MoveTo should collapse the selection")
	}
	if got := e.Cursor(); got != (document.Point{Block: 1, Offset: 5}) {
		t.Errorf("Cursor() = %v, want clamped to {1 5}", got)
	}
}

func TestActiveMarksOverSelection(t *testing.T) {
	e, _ := newEditor(t, "hello")
	all := document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 5}}
	head := document.Range{Start: document.Point{Offset: 0}, End: document.Point{Offset: 2}}

	e.SetSelection(head)
	e.ToggleMark(document.MarkBold)
	e.SetSelection(all)
	e.ToggleMark(document.MarkItalic)

	tests := []struct {
		name string
		r    document.Range
		want document.MarkSet
	}{
		{"whole text", all, document.NewMarkSet(document.MarkItalic)},
		{"bold head", head, document.NewMarkSet(document.MarkBold, document.MarkItalic)},
		{"plain tail", document.Range{Start: document.Point{Offset: 2}, End: document.Point{Offset: 5}}, document.NewMarkSet(document.MarkItalic)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.SetSelection(tt.r)
			if got := e.ActiveMarks(); !got.Equal(tt.want) {
				t.Errorf("ActiveMarks() = %v, want %v", got.Sorted(), tt.want.Sorted())
			}
		})
	}
}
