package document

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind distinguishes block nodes from text leaves.
type Kind string

// Node kinds.
const (
	KindBlock Kind = "block"
	KindText  Kind = "text"
)

// Block types with a dedicated presentation.
const (
	TypeParagraph = "paragraph"
	TypeSection   = "section"
	TypeHeader    = "header"
	TypeGroup     = "group"
)

// Node is a block or a text leaf of the document tree.
type Node struct {
	// Key identifies the node within its document. Synthesized when absent.
	Key  string
	Kind Kind

	// Block fields.
	Type  string
	Nodes []*Node

	// Text fields.
	Text  string
	Marks MarkSet
}

// Document is the full editable content tree.
type Document struct {
	Nodes []*Node
}

// NewKey returns a fresh node key.
func NewKey() string {
	return uuid.NewString()
}

// NewBlock creates a block node of the given type.
func NewBlock(typ string, children ...*Node) *Node {
	return &Node{
		Key:   NewKey(),
		Kind:  KindBlock,
		Type:  typ,
		Nodes: children,
	}
}

// NewText creates a text leaf carrying the given marks.
func NewText(text string, marks ...Mark) *Node {
	return &Node{
		Key:   NewKey(),
		Kind:  KindText,
		Text:  text,
		Marks: NewMarkSet(marks...),
	}
}

// New creates a document from top-level blocks and normalizes it.
func New(blocks ...*Node) *Document {
	d := &Document{Nodes: blocks}
	d.Normalize()
	return d
}

// Default returns the document used when nothing has been saved:
// a single empty paragraph.
func Default() *Document {
	return New(NewBlock(TypeParagraph))
}

// IsBlock reports whether n is a block node.
func (n *Node) IsBlock() bool { return n != nil && n.Kind == KindBlock }

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool { return n != nil && n.Kind == KindText }

// IsLeafBlock reports whether n is a block without block children.
func (n *Node) IsLeafBlock() bool {
	if !n.IsBlock() {
		return false
	}
	for _, c := range n.Nodes {
		if c.IsBlock() {
			return false
		}
	}
	return true
}

// Len returns the rune length of a text leaf, or the summed length of the
// text leaves directly under a block.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	if n.IsText() {
		return utf8.RuneCountInString(n.Text)
	}
	total := 0
	for _, c := range n.Nodes {
		if c.IsText() {
			total += c.Len()
		}
	}
	return total
}

// PlainText returns the concatenated text of the node.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.Text
	}
	if n.IsLeafBlock() {
		var sb strings.Builder
		for _, c := range n.Nodes {
			sb.WriteString(c.Text)
		}
		return sb.String()
	}
	parts := make([]string, 0, len(n.Nodes))
	for _, c := range n.Nodes {
		if c.IsBlock() {
			parts = append(parts, c.PlainText())
		}
	}
	return strings.Join(parts, "\n")
}

// Clone returns a deep copy of the node, keys included.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Key:   n.Key,
		Kind:  n.Kind,
		Type:  n.Type,
		Text:  n.Text,
		Marks: n.Marks.Clone(),
	}
	if len(n.Nodes) > 0 {
		out.Nodes = make([]*Node, len(n.Nodes))
		for i, c := range n.Nodes {
			out.Nodes[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Nodes: make([]*Node, len(d.Nodes))}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// Text returns the plain text of the document, one line per leaf block.
func (d *Document) Text() string {
	blocks := d.LeafBlocks()
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.PlainText()
	}
	return strings.Join(lines, "\n")
}

// LeafBlocks returns the blocks without block children in document order.
func (d *Document) LeafBlocks() []*Node {
	if d == nil {
		return nil
	}
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if !n.IsBlock() {
				continue
			}
			if n.IsLeafBlock() {
				out = append(out, n)
				continue
			}
			walk(n.Nodes)
		}
	}
	walk(d.Nodes)
	return out
}

// Equal reports whether two documents are structurally equal: same block
// types, nesting, text and mark sets. Keys are ignored.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	return nodesEqual(a.Nodes, b.Nodes)
}

func nodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.IsText() {
		return a.Text == b.Text && a.Marks.Equal(b.Marks)
	}
	return a.Type == b.Type && nodesEqual(a.Nodes, b.Nodes)
}
