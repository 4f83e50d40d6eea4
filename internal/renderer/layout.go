package renderer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/renderer/backend"
)

// Line is one screen row of laid-out document text.
type Line struct {
	Cells []backend.Cell

	// Block is the leaf block index the line belongs to.
	Block int

	// From and To are the rune offsets the line covers.
	From, To int

	// cols[i] is the column of rune From+i; cols[To-From] is the column
	// after the last rune.
	cols []int
}

// Layout is a document broken into rows of a fixed width.
type Layout struct {
	Width int
	Lines []Line
}

// NewLayout lays doc out at width columns.
func NewLayout(doc *document.Document, schema *Schema, width int) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{Width: width}
	leaf := 0
	var walk func(nodes []*document.Node, indent int, inherited backend.Style)
	walk = func(nodes []*document.Node, indent int, inherited backend.Style) {
		for _, n := range nodes {
			if !n.IsBlock() {
				continue
			}
			bs := schema.Block(n.Type)
			style := inherited.Merge(bs.Style)
			if n.IsLeafBlock() {
				l.layoutLeaf(n, leaf, indent, bs.Prefix, style, schema)
				leaf++
				continue
			}
			walk(n.Nodes, indent+bs.Indent, style)
		}
	}
	walk(doc.Nodes, 0, backend.DefaultStyle())
	return l
}

func (l *Layout) layoutLeaf(b *document.Node, index, indent int, prefix string, base backend.Style, schema *Schema) {
	lead := make([]backend.Cell, 0, indent+len(prefix))
	for i := 0; i < indent; i++ {
		lead = append(lead, backend.EmptyCell())
	}
	for _, r := range prefix {
		lead = append(lead, backend.Cell{Rune: r, Style: base})
	}
	if len(lead) >= l.Width {
		lead = lead[:l.Width-1]
	}

	cur := Line{Block: index, Cells: append([]backend.Cell(nil), lead...)}
	offset := 0
	flush := func() {
		cur.To = offset
		cur.cols = append(cur.cols, len(cur.Cells))
		l.Lines = append(l.Lines, cur)
		cur = Line{Block: index, From: offset, Cells: make([]backend.Cell, len(lead))}
		for i := range cur.Cells {
			cur.Cells[i] = backend.EmptyCell()
		}
	}

	for _, leaf := range b.Nodes {
		if !leaf.IsText() {
			continue
		}
		style := schema.TextStyle(base, leaf.Marks)
		for _, r := range leaf.Text {
			if r == '\t' {
				w := l.tabWidth(len(cur.Cells) - len(lead))
				if len(cur.Cells)+w > l.Width && len(cur.Cells) > len(lead) {
					flush()
					w = l.tabWidth(0)
				}
				cur.cols = append(cur.cols, len(cur.Cells))
				for i := 0; i < w; i++ {
					cur.Cells = append(cur.Cells, backend.Cell{Rune: ' ', Style: style})
				}
				offset++
				continue
			}
			w := uniseg.StringWidth(string(r))
			if w < 1 {
				w = 1
			}
			if len(cur.Cells)+w > l.Width && len(cur.Cells) > len(lead) {
				flush()
			}
			cur.cols = append(cur.cols, len(cur.Cells))
			cur.Cells = append(cur.Cells, backend.Cell{Rune: r, Style: style})
			for i := 1; i < w; i++ {
				cur.Cells = append(cur.Cells, backend.Cell{Rune: 0, Style: style})
			}
			offset++
		}
	}
	flush()
}

// TabStop is the tab width in columns, counted from the start of the text.
const TabStop = 4

// tabWidth returns the cells a tab at text column col spans.
func (l *Layout) tabWidth(col int) int {
	return min(TabStop-col%TabStop, max(l.Width-1, 1))
}

// Locate returns the row and column of p.
func (l *Layout) Locate(p document.Point) (row, col int) {
	last := -1
	for i, line := range l.Lines {
		if line.Block != p.Block {
			if last >= 0 {
				break
			}
			continue
		}
		last = i
		if p.Offset >= line.From && p.Offset < line.To {
			return i, line.cols[p.Offset-line.From]
		}
	}
	if last < 0 {
		return 0, 0
	}
	line := l.Lines[last]
	off := min(max(p.Offset-line.From, 0), len(line.cols)-1)
	return last, line.cols[off]
}

// PointAt maps a row and column back to a document point.
func (l *Layout) PointAt(row, col int) document.Point {
	if len(l.Lines) == 0 {
		return document.Point{}
	}
	row = min(max(row, 0), len(l.Lines)-1)
	line := l.Lines[row]
	last := len(line.cols) - 1
	// The end of a wrapped row is drawn at the start of the next one.
	if row+1 < len(l.Lines) && l.Lines[row+1].Block == line.Block && last > 0 {
		last--
	}
	for i := 0; i < last; i++ {
		if line.cols[i] >= col {
			return document.Point{Block: line.Block, Offset: line.From + i}
		}
	}
	return document.Point{Block: line.Block, Offset: line.From + last}
}
