package document

// Point addresses a rune offset inside a leaf block.
// Block indexes Document.LeafBlocks(); both fields are 0-based.
type Point struct {
	Block  int
	Offset int
}

// Range is a half-open span [Start, End) in document order.
type Range struct {
	Start Point
	End   Point
}

// ComparePoint orders points in document order.
func ComparePoint(a, b Point) int {
	switch {
	case a.Block < b.Block:
		return -1
	case a.Block > b.Block:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Collapsed returns a zero-width range at p.
func Collapsed(p Point) Range {
	return Range{Start: p, End: p}
}

// Normalize returns r with Start <= End.
func (r Range) Normalize() Range {
	if ComparePoint(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// IsCollapsed reports whether the range covers no text.
func (r Range) IsCollapsed() bool {
	return r.Start == r.End
}

// ClampPoint clamps p into the bounds of the document.
func (d *Document) ClampPoint(p Point) Point {
	blocks := d.LeafBlocks()
	if len(blocks) == 0 {
		return Point{}
	}
	if p.Block < 0 {
		return Point{}
	}
	if p.Block >= len(blocks) {
		last := len(blocks) - 1
		return Point{Block: last, Offset: blocks[last].Len()}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := blocks[p.Block].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// ClampRange clamps both ends of r and normalizes it.
func (d *Document) ClampRange(r Range) Range {
	return Range{Start: d.ClampPoint(r.Start), End: d.ClampPoint(r.End)}.Normalize()
}

// End returns the point after the last character of the document.
func (d *Document) End() Point {
	blocks := d.LeafBlocks()
	if len(blocks) == 0 {
		return Point{}
	}
	last := len(blocks) - 1
	return Point{Block: last, Offset: blocks[last].Len()}
}
