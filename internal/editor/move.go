package editor

import "github.com/dshills/keynote/internal/document"

// Direction is a caret movement direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
	DirHome
	DirEnd
)

// Move moves the caret. With extend the selection grows from its anchor;
// without it any selection collapses.
func (e *Editor) Move(dir Direction, extend bool) {
	if extend && !e.selecting {
		e.anchor = e.cursor
		e.selecting = true
	}
	if !extend {
		if r, ok := e.Selection(); ok && (dir == DirLeft || dir == DirRight) {
			if dir == DirLeft {
				e.cursor = r.Start
			} else {
				e.cursor = r.End
			}
			e.selecting = false
			e.clearPending()
			return
		}
		e.selecting = false
	}

	switch dir {
	case DirLeft:
		e.cursor = e.prevPoint(e.cursor)
	case DirRight:
		e.cursor = e.nextPoint(e.cursor)
	case DirUp:
		e.cursor = e.doc.ClampPoint(document.Point{Block: max(e.cursor.Block-1, 0), Offset: e.cursor.Offset})
	case DirDown:
		if e.cursor.Block+1 < len(e.doc.LeafBlocks()) {
			e.cursor = e.doc.ClampPoint(document.Point{Block: e.cursor.Block + 1, Offset: e.cursor.Offset})
		}
	case DirHome:
		e.cursor.Offset = 0
	case DirEnd:
		e.cursor = e.doc.ClampPoint(document.Point{Block: e.cursor.Block, Offset: 1 << 30})
	}
	e.clearPending()
}

// MoveTo places the caret at p, extending the selection from its anchor
// when extend is set.
func (e *Editor) MoveTo(p document.Point, extend bool) {
	if extend && !e.selecting {
		e.anchor = e.cursor
		e.selecting = true
	}
	if !extend {
		e.selecting = false
	}
	e.cursor = e.doc.ClampPoint(p)
	e.clearPending()
}

func (e *Editor) prevPoint(p document.Point) document.Point {
	p = e.doc.ClampPoint(p)
	if p.Offset > 0 {
		return document.Point{Block: p.Block, Offset: p.Offset - 1}
	}
	if p.Block == 0 {
		return p
	}
	blocks := e.doc.LeafBlocks()
	return document.Point{Block: p.Block - 1, Offset: blocks[p.Block-1].Len()}
}

func (e *Editor) nextPoint(p document.Point) document.Point {
	p = e.doc.ClampPoint(p)
	blocks := e.doc.LeafBlocks()
	if p.Offset < blocks[p.Block].Len() {
		return document.Point{Block: p.Block, Offset: p.Offset + 1}
	}
	if p.Block+1 >= len(blocks) {
		return p
	}
	return document.Point{Block: p.Block + 1, Offset: 0}
}
