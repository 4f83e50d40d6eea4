package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/renderer/backend"
)

func paragraph(text string, marks ...document.Mark) *document.Node {
	return document.NewBlock(document.TypeParagraph, document.NewText(text, marks...))
}

func TestLayoutWrap(t *testing.T) {
	doc := document.New(paragraph("abcdefghij"))
	l := NewLayout(doc, DefaultSchema(), 4)

	if len(l.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(l.Lines))
	}
	wantRanges := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	for i, want := range wantRanges {
		if l.Lines[i].From != want[0] || l.Lines[i].To != want[1] {
			t.Errorf("line %d = [%d,%d), want [%d,%d)", i, l.Lines[i].From, l.Lines[i].To, want[0], want[1])
		}
	}

	tests := []struct {
		offset   int
		row, col int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{5, 1, 1},
		{10, 2, 2},
	}
	for _, tt := range tests {
		row, col := l.Locate(document.Point{Offset: tt.offset})
		if row != tt.row || col != tt.col {
			t.Errorf("Locate(%d) = (%d,%d), want (%d,%d)", tt.offset, row, col, tt.row, tt.col)
		}
	}

	if p := l.PointAt(1, 2); p != (document.Point{Offset: 6}) {
		t.Errorf("PointAt(1,2) = %+v", p)
	}
	if p := l.PointAt(9, 99); p != (document.Point{Offset: 10}) {
		t.Errorf("PointAt past end = %+v", p)
	}
}

func TestPointAtWrappedRowEnd(t *testing.T) {
	doc := document.New(paragraph("abcdefghij"))
	l := NewLayout(doc, DefaultSchema(), 4)

	// Offset 4 is drawn at the start of row 1, so row 0 ends at offset 3.
	if p := l.PointAt(0, 99); p != (document.Point{Offset: 3}) {
		t.Errorf("PointAt(0,99) = %+v, want offset 3", p)
	}
	if p := l.PointAt(1, 99); p != (document.Point{Offset: 7}) {
		t.Errorf("PointAt(1,99) = %+v, want offset 7", p)
	}
	for row := 0; row < len(l.Lines); row++ {
		p := l.PointAt(row, 99)
		if got, _ := l.Locate(p); got != row {
			t.Errorf("Locate(PointAt(%d,99)) row = %d", row, got)
		}
	}
}

func TestLayoutTabs(t *testing.T) {
	tests := []struct {
		text string
		row  string
		b    int // column of the rune after the tab
	}{
		{"a\tb", "a   b", 4},
		{"\tb", "    b", 4},
		{"abcd\tb", "abcd    b", 8},
	}
	for _, tt := range tests {
		l := NewLayout(document.New(paragraph(tt.text)), DefaultSchema(), 20)
		if len(l.Lines) != 1 {
			t.Fatalf("%q: lines = %d, want 1", tt.text, len(l.Lines))
		}
		var sb strings.Builder
		for _, c := range l.Lines[0].Cells {
			if c.Rune == '\t' {
				t.Errorf("%q: tab drawn as a rune", tt.text)
			}
			sb.WriteRune(c.Rune)
		}
		if got := sb.String(); got != tt.row {
			t.Errorf("%q: row = %q, want %q", tt.text, got, tt.row)
		}
		last := len([]rune(tt.text)) - 1
		if _, col := l.Locate(document.Point{Offset: last}); col != tt.b {
			t.Errorf("%q: col of last rune = %d, want %d", tt.text, col, tt.b)
		}
	}
}

func TestLayoutTabWraps(t *testing.T) {
	l := NewLayout(document.New(paragraph("abcde\tf")), DefaultSchema(), 6)
	if len(l.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(l.Lines))
	}
	if row, col := l.Locate(document.Point{Offset: 5}); row != 1 || col != 0 {
		t.Errorf("Locate(tab) = (%d,%d), want (1,0)", row, col)
	}
	if row, col := l.Locate(document.Point{Offset: 6}); row != 1 || col != 4 {
		t.Errorf("Locate(after tab) = (%d,%d), want (1,4)", row, col)
	}
}

func TestLayoutWideRunes(t *testing.T) {
	doc := document.New(paragraph("日本"))
	l := NewLayout(doc, DefaultSchema(), 10)

	if _, col := l.Locate(document.Point{Offset: 1}); col != 2 {
		t.Errorf("col of second rune = %d, want 2", col)
	}
	if _, col := l.Locate(document.Point{Offset: 2}); col != 4 {
		t.Errorf("col after text = %d, want 4", col)
	}
}

func TestLayoutBlocks(t *testing.T) {
	doc := document.New(
		document.NewBlock(document.TypeHeader, document.NewText("Title")),
		document.NewBlock(document.TypeGroup, paragraph("inner")),
	)
	l := NewLayout(doc, DefaultSchema(), 20)
	if len(l.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(l.Lines))
	}
	if !l.Lines[0].Cells[0].Style.Has(backend.AttrBold) {
		t.Error("header should render bold")
	}
	if l.Lines[1].Block != 1 {
		t.Errorf("group child block = %d, want 1", l.Lines[1].Block)
	}
	if row, col := l.Locate(document.Point{Block: 1}); row != 1 || col != 2 {
		t.Errorf("Locate group child = (%d,%d), want (1,2)", row, col)
	}
}

func TestSchemaTextStyle(t *testing.T) {
	s := DefaultSchema()
	st := s.TextStyle(backend.DefaultStyle(), document.NewMarkSet(document.MarkBold, document.MarkItalic, "sparkle"))
	if !st.Has(backend.AttrBold) || !st.Has(backend.AttrItalic) {
		t.Errorf("style = %+v, want bold and italic", st)
	}
	if st.Has(backend.AttrUnderline) {
		t.Error("unexpected underline")
	}
	if got := s.Block("unknown"); got != s.Fallback {
		t.Errorf("unknown block = %+v, want fallback", got)
	}
}

func TestDrawDocumentAndStatus(t *testing.T) {
	nb := backend.NewNullBackend(40, 5)
	r := New(nb, nil)
	r.Draw(Frame{
		Doc:    document.New(paragraph("hello", document.MarkBold)),
		Cursor: document.Point{Offset: 5},
		Status: Status{Store: "memory"},
	})

	if got := nb.Row(0); got != "hello" {
		t.Errorf("row 0 = %q, want %q", got, "hello")
	}
	if !nb.Cell(0, 0).Style.Has(backend.AttrBold) {
		t.Error("bold mark not drawn")
	}
	status := nb.Row(4)
	if !strings.HasPrefix(status, " EDIT") {
		t.Errorf("status = %q, want EDIT mode", status)
	}
	if !strings.HasSuffix(status, "memory") {
		t.Errorf("status = %q, want store name on the right", status)
	}
	x, y, visible := nb.CursorPosition()
	if !visible || x != 5 || y != 0 {
		t.Errorf("cursor = (%d,%d,%v), want (5,0,true)", x, y, visible)
	}
	if nb.Shows() != 1 {
		t.Errorf("shows = %d, want 1", nb.Shows())
	}
}

func TestDrawStatusContents(t *testing.T) {
	nb := backend.NewNullBackend(60, 3)
	r := New(nb, nil)
	r.Draw(Frame{
		Doc: document.Default(),
		Status: Status{
			ReadOnly: true,
			Marks:    document.NewMarkSet(document.MarkItalic, document.MarkBold),
			Message:  "quota exceeded",
			Warning:  true,
		},
	})

	status := nb.Row(2)
	for _, want := range []string{"READ-ONLY", "[bold italic]", "quota exceeded"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
	idx := strings.Index(status, "quota")
	if c := nb.Cell(idx, 2); c.Style.Fg != backend.ColorRed {
		t.Errorf("warning fg = %d, want red", c.Style.Fg)
	}
}

func TestDrawStatusSaveCounts(t *testing.T) {
	tests := []struct {
		saves, failures int
		want            string
	}{
		{0, 0, " memory"},
		{3, 0, "3 saved  memory"},
		{3, 2, "3 saved, 2 failed  memory"},
		{0, 1, "1 failed  memory"},
	}
	for _, tt := range tests {
		nb := backend.NewNullBackend(60, 2)
		New(nb, nil).Draw(Frame{
			Doc:    document.Default(),
			Status: Status{Store: "memory", Saves: tt.saves, Failures: tt.failures},
		})
		status := nb.Row(1)
		if !strings.HasSuffix(status, tt.want) {
			t.Errorf("status(%d,%d) = %q, want suffix %q", tt.saves, tt.failures, status, tt.want)
		}
		if tt.saves == 0 && strings.Contains(status, "saved") {
			t.Errorf("status(%d,%d) = %q, want no save count", tt.saves, tt.failures, status)
		}
	}
}

func TestDocWidth(t *testing.T) {
	tests := []struct {
		width   int
		sidebar bool
		want    int
	}{
		{80, false, 80},
		{80, true, 80 - sidebarWidth - 1},
		{sidebarWidth + minDocWidth + 1, true, minDocWidth},
		{sidebarWidth + minDocWidth, true, sidebarWidth + minDocWidth},
	}
	for _, tt := range tests {
		if got := DocWidth(tt.width, tt.sidebar); got != tt.want {
			t.Errorf("DocWidth(%d, %v) = %d, want %d", tt.width, tt.sidebar, got, tt.want)
		}
	}
}

func TestDrawSidebar(t *testing.T) {
	entries := []SidebarEntry{{Chord: "Meta+b", Mark: "bold"}, {Chord: "Meta+Alt+c", Mark: "code"}}

	t.Run("wide", func(t *testing.T) {
		nb := backend.NewNullBackend(60, 6)
		New(nb, nil).Draw(Frame{Doc: document.New(paragraph("text")), ShowSidebar: true, Sidebar: entries})
		if !strings.HasPrefix(nb.Row(0), "text") {
			t.Errorf("row 0 = %q", nb.Row(0))
		}
		if !strings.Contains(nb.Row(0), "Hotkeys") {
			t.Errorf("row 0 = %q, want sidebar title", nb.Row(0))
		}
		if row := nb.Row(2); !strings.Contains(row, "Meta+b") || !strings.Contains(row, "bold") {
			t.Errorf("row 2 = %q", row)
		}
		if row := nb.Row(3); !strings.Contains(row, "Meta+Alt+c code") {
			t.Errorf("row 3 = %q", row)
		}
	})

	t.Run("narrow", func(t *testing.T) {
		nb := backend.NewNullBackend(40, 6)
		New(nb, nil).Draw(Frame{Doc: document.New(paragraph("text")), ShowSidebar: true, Sidebar: entries})
		if strings.Contains(nb.Screen(), "Hotkeys") {
			t.Error("sidebar drawn on a narrow screen")
		}
	})

	t.Run("hidden", func(t *testing.T) {
		nb := backend.NewNullBackend(60, 6)
		New(nb, nil).Draw(Frame{Doc: document.New(paragraph("text")), Sidebar: entries})
		if strings.Contains(nb.Screen(), "Hotkeys") {
			t.Error("sidebar drawn while hidden")
		}
	})
}

func TestDrawSelection(t *testing.T) {
	nb := backend.NewNullBackend(20, 3)
	New(nb, nil).Draw(Frame{
		Doc:       document.New(paragraph("abcd")),
		Cursor:    document.Point{Offset: 2},
		Selection: document.Range{Start: document.Point{Offset: 2}, End: document.Point{Offset: 0}},
		Selecting: true,
	})
	for x, want := range []bool{true, true, false, false} {
		if got := nb.Cell(x, 0).Style.Has(backend.AttrReverse); got != want {
			t.Errorf("cell %d reverse = %v, want %v", x, got, want)
		}
	}
}

func TestDrawScrollsToCursor(t *testing.T) {
	doc := document.New(paragraph("p0"), paragraph("p1"), paragraph("p2"), paragraph("p3"), paragraph("p4"))
	nb := backend.NewNullBackend(20, 3)
	r := New(nb, nil)

	r.Draw(Frame{Doc: doc, Cursor: document.Point{Block: 4}})
	if r.Top() != 3 {
		t.Fatalf("top = %d, want 3", r.Top())
	}
	if nb.Row(0) != "p3" || nb.Row(1) != "p4" {
		t.Errorf("rows = %q, %q", nb.Row(0), nb.Row(1))
	}
	if _, y, _ := nb.CursorPosition(); y != 1 {
		t.Errorf("cursor row = %d, want 1", y)
	}

	r.Draw(Frame{Doc: doc, Cursor: document.Point{Block: 0}})
	if r.Top() != 0 || nb.Row(0) != "p0" {
		t.Errorf("after moving up top = %d, row 0 = %q", r.Top(), nb.Row(0))
	}
}

func TestPrintPlain(t *testing.T) {
	doc := document.New(
		document.NewBlock(document.TypeHeader, document.NewText("Title")),
		document.NewBlock(document.TypeParagraph,
			document.NewText("plain "),
			document.NewText("bold", document.MarkBold),
		),
		document.NewBlock(document.TypeGroup, paragraph("nested")),
	)
	var buf bytes.Buffer
	if err := Print(&buf, doc, WithProfile(termenv.Ascii)); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := "Title\nplain bold\n  nested\n"
	if buf.String() != want {
		t.Errorf("Print = %q, want %q", buf.String(), want)
	}
}

func TestPrintStyled(t *testing.T) {
	doc := document.New(paragraph("loud", document.MarkBold))
	var buf bytes.Buffer
	if err := Print(&buf, doc, WithProfile(termenv.ANSI256)); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Print = %q, want escape sequences", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("Print = %q, missing text", buf.String())
	}
}
