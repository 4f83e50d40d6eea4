package document

import "unicode/utf8"

// Normalize restores the document invariants in place.
func (d *Document) Normalize() {
	if d == nil {
		return
	}
	if len(d.Nodes) == 0 {
		d.Nodes = []*Node{NewBlock(TypeParagraph)}
	}
	normalizeNodes(d.Nodes)
}

func normalizeNodes(nodes []*Node) {
	for _, n := range nodes {
		if n.Key == "" {
			n.Key = NewKey()
		}
		if n.IsBlock() {
			if n.IsLeafBlock() {
				normalizeLeafBlock(n)
			} else {
				normalizeNodes(n.Nodes)
			}
		}
	}
}

// normalizeLeafBlock merges adjacent leaves with equal marks, drops empty
// leaves and keeps at least one leaf.
func normalizeLeafBlock(b *Node) {
	merged := make([]*Node, 0, len(b.Nodes))
	for _, c := range b.Nodes {
		if c.Key == "" {
			c.Key = NewKey()
		}
		if c.Text == "" {
			continue
		}
		if last := len(merged) - 1; last >= 0 && merged[last].Marks.Equal(c.Marks) {
			merged[last].Text += c.Text
			continue
		}
		merged = append(merged, c)
	}
	if len(merged) == 0 {
		var marks MarkSet
		if len(b.Nodes) > 0 {
			// An empty block remembers the marks of its last leaf.
			marks = b.Nodes[len(b.Nodes)-1].Marks.Clone()
		}
		merged = append(merged, &Node{Key: NewKey(), Kind: KindText, Marks: marks})
	}
	b.Nodes = merged
}

// runeIndex converts a rune offset into a byte offset within s.
func runeIndex(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == offset {
			return pos
		}
		i++
	}
	return len(s)
}

// splitLeafAt splits the text leaf of b that strictly contains offset, so
// that a leaf boundary exists at offset. It returns the index of the first
// leaf starting at or after offset.
func splitLeafAt(b *Node, offset int) int {
	pos := 0
	for i, c := range b.Nodes {
		if !c.IsText() {
			continue
		}
		n := utf8.RuneCountInString(c.Text)
		if offset == pos {
			return i
		}
		if offset < pos+n {
			cut := runeIndex(c.Text, offset-pos)
			right := &Node{Key: NewKey(), Kind: KindText, Text: c.Text[cut:], Marks: c.Marks.Clone()}
			c.Text = c.Text[:cut]
			b.Nodes = append(b.Nodes[:i+1], append([]*Node{right}, b.Nodes[i+1:]...)...)
			return i + 1
		}
		pos += n
	}
	return len(b.Nodes)
}

// runs returns the non-empty text leaves of b covering [from, to), splitting
// leaves at both boundaries.
func runs(b *Node, from, to int) []*Node {
	if from >= to {
		return nil
	}
	splitLeafAt(b, to)
	start := splitLeafAt(b, from)
	var out []*Node
	pos := from
	for _, c := range b.Nodes[start:] {
		if pos >= to {
			break
		}
		if !c.IsText() || c.Text == "" {
			continue
		}
		out = append(out, c)
		pos += c.Len()
	}
	return out
}

// selectedRuns returns the text runs covered by r, splitting leaves at the
// range boundaries. The affected blocks are returned for renormalization.
func (d *Document) selectedRuns(r Range) (runsOut []*Node, blocks []*Node) {
	leafs := d.LeafBlocks()
	r = d.ClampRange(r)
	for bi := r.Start.Block; bi <= r.End.Block && bi < len(leafs); bi++ {
		b := leafs[bi]
		from, to := 0, b.Len()
		if bi == r.Start.Block {
			from = r.Start.Offset
		}
		if bi == r.End.Block {
			to = r.End.Offset
		}
		runsOut = append(runsOut, runs(b, from, to)...)
		blocks = append(blocks, b)
	}
	return runsOut, blocks
}

// MarksIn reports whether every text run in r carries m. An empty range
// reports false.
func (d *Document) MarksIn(r Range, m Mark) bool {
	scratch := d.Clone()
	selected, _ := scratch.selectedRuns(r)
	if len(selected) == 0 {
		return false
	}
	for _, run := range selected {
		if !run.Marks.Has(m) {
			return false
		}
	}
	return true
}

// ToggleMark toggles m over the text covered by r. When every selected run
// already carries m it is removed from all of them; otherwise it is added to
// all of them. It reports whether the document changed.
func (d *Document) ToggleMark(r Range, m Mark) bool {
	r = d.ClampRange(r)
	if r.IsCollapsed() {
		return false
	}
	selected, blocks := d.selectedRuns(r)
	if len(selected) == 0 {
		return false
	}

	all := true
	for _, run := range selected {
		if !run.Marks.Has(m) {
			all = false
			break
		}
	}
	for _, run := range selected {
		if all {
			run.Marks = run.Marks.Without(m)
		} else {
			run.Marks = run.Marks.With(m)
		}
	}
	for _, b := range blocks {
		normalizeLeafBlock(b)
	}
	return true
}

// MarksAt returns the marks new text typed at p inherits: those of the
// character before p, or of the first leaf at the start of a block.
func (d *Document) MarksAt(p Point) MarkSet {
	leafs := d.LeafBlocks()
	p = d.ClampPoint(p)
	if p.Block >= len(leafs) {
		return nil
	}
	b := leafs[p.Block]
	pos := 0
	var last *Node
	for _, c := range b.Nodes {
		if !c.IsText() {
			continue
		}
		if last == nil {
			last = c
		}
		n := c.Len()
		if p.Offset > pos && p.Offset <= pos+n {
			return c.Marks.Clone()
		}
		pos += n
	}
	if last != nil {
		return last.Marks.Clone()
	}
	return nil
}

// InsertText inserts text (no newlines) with the given marks at p and
// returns the point after the inserted text.
func (d *Document) InsertText(p Point, text string, marks MarkSet) Point {
	leafs := d.LeafBlocks()
	p = d.ClampPoint(p)
	if text == "" || p.Block >= len(leafs) {
		return p
	}
	b := leafs[p.Block]
	i := splitLeafAt(b, p.Offset)
	leaf := &Node{Key: NewKey(), Kind: KindText, Text: text, Marks: marks.Clone()}
	b.Nodes = append(b.Nodes[:i], append([]*Node{leaf}, b.Nodes[i:]...)...)
	normalizeLeafBlock(b)
	return Point{Block: p.Block, Offset: p.Offset + utf8.RuneCountInString(text)}
}

// DeleteRange removes the text covered by r, joining the first and last
// block when r spans several. It returns the collapsed point at r.Start.
func (d *Document) DeleteRange(r Range) Point {
	r = d.ClampRange(r)
	if r.IsCollapsed() {
		return r.Start
	}
	leafs := d.LeafBlocks()
	first := leafs[r.Start.Block]

	if r.Start.Block == r.End.Block {
		removeRuns(first, r.Start.Offset, r.End.Offset)
		normalizeLeafBlock(first)
		return r.Start
	}

	last := leafs[r.End.Block]
	removeRuns(first, r.Start.Offset, first.Len())
	removeRuns(last, 0, r.End.Offset)
	first.Nodes = append(first.Nodes, last.Nodes...)
	normalizeLeafBlock(first)

	doomed := make(map[*Node]bool, r.End.Block-r.Start.Block)
	for bi := r.Start.Block + 1; bi <= r.End.Block; bi++ {
		doomed[leafs[bi]] = true
	}
	d.Nodes = removeBlocks(d.Nodes, doomed)
	d.Normalize()
	return r.Start
}

func removeRuns(b *Node, from, to int) {
	doomed := runs(b, from, to)
	if len(doomed) == 0 {
		return
	}
	set := make(map[*Node]bool, len(doomed))
	for _, n := range doomed {
		set[n] = true
	}
	kept := b.Nodes[:0]
	for _, c := range b.Nodes {
		if !set[c] {
			kept = append(kept, c)
		}
	}
	b.Nodes = kept
}

// removeBlocks drops doomed blocks and any container left without children.
func removeBlocks(nodes []*Node, doomed map[*Node]bool) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if doomed[n] {
			continue
		}
		if n.IsBlock() && !n.IsLeafBlock() {
			n.Nodes = removeBlocks(n.Nodes, doomed)
			if len(n.Nodes) == 0 {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// SplitBlock splits the leaf block at p into two blocks of the same type and
// returns the point at the start of the new block.
func (d *Document) SplitBlock(p Point) Point {
	leafs := d.LeafBlocks()
	p = d.ClampPoint(p)
	if p.Block >= len(leafs) {
		return p
	}
	b := leafs[p.Block]
	i := splitLeafAt(b, p.Offset)

	tail := &Node{Key: NewKey(), Kind: KindBlock, Type: b.Type}
	tail.Nodes = append(tail.Nodes, b.Nodes[i:]...)
	if len(tail.Nodes) == 0 {
		tail.Nodes = []*Node{{Key: NewKey(), Kind: KindText, Marks: d.MarksAt(p)}}
	}
	b.Nodes = b.Nodes[:i]
	normalizeLeafBlock(b)
	normalizeLeafBlock(tail)

	d.Nodes = insertAfter(d.Nodes, b, tail)
	return Point{Block: p.Block + 1, Offset: 0}
}

func insertAfter(nodes []*Node, target, added *Node) []*Node {
	for i, n := range nodes {
		if n == target {
			out := make([]*Node, 0, len(nodes)+1)
			out = append(out, nodes[:i+1]...)
			out = append(out, added)
			return append(out, nodes[i+1:]...)
		}
		if n.IsBlock() && !n.IsLeafBlock() {
			n.Nodes = insertAfter(n.Nodes, target, added)
		}
	}
	return nodes
}
