package renderer

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/renderer/backend"
)

const (
	sidebarWidth    = 28
	minDocWidth     = 20
	sidebarTitle    = "Hotkeys"
	statusSeparator = "  "
)

// SidebarEntry is one row of the hotkey sidebar.
type SidebarEntry struct {
	Chord string
	Mark  string
}

// Status is the content of the status line.
type Status struct {
	ReadOnly bool
	Store    string
	Marks    document.MarkSet
	Message  string
	Warning  bool

	// Saves and Failures count writes since startup. Zero hides them.
	Saves    int
	Failures int
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Doc       *document.Document
	Cursor    document.Point
	Selection document.Range
	Selecting bool

	// Sidebar is drawn when ShowSidebar is set and the screen is wide enough.
	ShowSidebar bool
	Sidebar     []SidebarEntry

	Status Status
}

// Renderer draws frames on a backend.
type Renderer struct {
	backend backend.Backend
	schema  *Schema
	top     int
	layout  *Layout
}

// New creates a renderer. A nil schema uses DefaultSchema.
func New(b backend.Backend, schema *Schema) *Renderer {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Renderer{backend: b, schema: schema}
}

// Schema returns the renderer's schema.
func (r *Renderer) Schema() *Schema { return r.schema }

// Layout returns the layout of the last drawn frame.
func (r *Renderer) Layout() *Layout { return r.layout }

// Top returns the first visible layout row.
func (r *Renderer) Top() int { return r.top }

// Draw renders f and flushes the backend.
func (r *Renderer) Draw(f Frame) {
	width, height := r.backend.Size()
	r.backend.Clear()
	if width <= 0 || height <= 0 {
		r.backend.Show()
		return
	}

	docHeight := height - 1
	docWidth := DocWidth(width, f.ShowSidebar)
	if docWidth < width {
		r.drawSidebar(docWidth+1, sidebarWidth, docHeight, f.Sidebar)
		for y := 0; y < docHeight; y++ {
			r.backend.SetCell(docWidth, y, backend.Cell{Rune: '│', Style: backend.DefaultStyle().With(backend.AttrDim)})
		}
	}

	doc := f.Doc
	if doc == nil {
		doc = document.Default()
	}
	r.layout = NewLayout(doc, r.schema, docWidth)
	row, col := r.layout.Locate(f.Cursor)
	r.scrollTo(row, docHeight)

	sel := f.Selection.Normalize()
	for y := 0; y < docHeight; y++ {
		idx := r.top + y
		if idx >= len(r.layout.Lines) {
			break
		}
		r.drawLine(y, r.layout.Lines[idx], f.Selecting, sel)
	}

	r.drawStatus(height-1, width, f.Status)

	if docHeight > 0 {
		r.backend.ShowCursor(min(col, docWidth-1), row-r.top)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()
}

// DocWidth returns the columns left for the document on a screen width
// columns wide. The sidebar takes its share only when enough remains.
func DocWidth(width int, showSidebar bool) int {
	if showSidebar && width-sidebarWidth-1 >= minDocWidth {
		return width - sidebarWidth - 1
	}
	return width
}

func (r *Renderer) scrollTo(row, height int) {
	if height <= 0 {
		r.top = 0
		return
	}
	if row < r.top {
		r.top = row
	}
	if row >= r.top+height {
		r.top = row - height + 1
	}
	if last := len(r.layout.Lines) - height; r.top > last {
		r.top = last
	}
	if r.top < 0 {
		r.top = 0
	}
}

func (r *Renderer) drawLine(y int, line Line, selecting bool, sel document.Range) {
	for x, c := range line.Cells {
		if c.Rune == 0 {
			continue
		}
		r.backend.SetCell(x, y, c)
	}
	if !selecting || sel.IsCollapsed() {
		return
	}
	for i := 0; i < line.To-line.From; i++ {
		p := document.Point{Block: line.Block, Offset: line.From + i}
		if document.ComparePoint(p, sel.Start) < 0 || document.ComparePoint(p, sel.End) >= 0 {
			continue
		}
		x := line.cols[i]
		c := line.Cells[x]
		c.Style = c.Style.Toggle(backend.AttrReverse)
		r.backend.SetCell(x, y, c)
	}
}

func (r *Renderer) drawSidebar(x0, width, height int, entries []SidebarEntry) {
	title := backend.DefaultStyle().With(backend.AttrBold)
	r.drawText(x0+1, 0, width-1, sidebarTitle, title)
	chordWidth := 0
	for _, e := range entries {
		chordWidth = max(chordWidth, uniseg.StringWidth(e.Chord))
	}
	for i, e := range entries {
		y := i + 2
		if y >= height {
			break
		}
		chord := e.Chord + strings.Repeat(" ", chordWidth-uniseg.StringWidth(e.Chord))
		n := r.drawText(x0+1, y, width-1, chord, backend.DefaultStyle().Foreground(backend.ColorCyan))
		r.drawText(x0+1+n, y, width-1-n, " "+e.Mark, backend.DefaultStyle())
	}
}

func (r *Renderer) drawStatus(y, width int, s Status) {
	bar := backend.DefaultStyle().With(backend.AttrReverse)
	for x := 0; x < width; x++ {
		r.backend.SetCell(x, y, backend.Cell{Rune: ' ', Style: bar})
	}

	mode := " EDIT "
	if s.ReadOnly {
		mode = " READ-ONLY "
	}
	x := r.drawText(0, y, width, mode, bar.With(backend.AttrBold))

	if s.Marks.Len() > 0 {
		names := make([]string, 0, s.Marks.Len())
		for _, m := range s.Marks.Sorted() {
			names = append(names, string(m))
		}
		x += r.drawText(x, y, width-x, statusSeparator+"["+strings.Join(names, " ")+"]", bar)
	}

	right := s.Store
	if right != "" {
		right += " "
	}
	if counts := saveCounts(s.Saves, s.Failures); counts != "" {
		right = counts + statusSeparator + right
	}
	rightWidth := uniseg.StringWidth(right)

	if s.Message != "" {
		style := bar
		if s.Warning {
			style = bar.Foreground(backend.ColorRed).With(backend.AttrBold)
		}
		x += r.drawText(x, y, width-x-rightWidth, statusSeparator+s.Message, style)
	}
	if rightWidth > 0 && x+rightWidth <= width {
		r.drawText(width-rightWidth, y, rightWidth, right, bar)
	}
}

func saveCounts(saves, failures int) string {
	var parts []string
	if saves > 0 {
		parts = append(parts, strconv.Itoa(saves)+" saved")
	}
	if failures > 0 {
		parts = append(parts, strconv.Itoa(failures)+" failed")
	}
	return strings.Join(parts, ", ")
}

// drawText draws s at (x, y) clipped to limit columns and returns the
// columns used.
func (r *Renderer) drawText(x, y, limit int, s string, style backend.Style) int {
	used := 0
	for _, ch := range s {
		w := uniseg.StringWidth(string(ch))
		if w < 1 {
			w = 1
		}
		if used+w > limit {
			break
		}
		r.backend.SetCell(x+used, y, backend.Cell{Rune: ch, Style: style})
		used += w
	}
	return used
}
