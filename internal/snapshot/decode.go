package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/keynote/internal/document"
)

// wireNode is the permissive input form of a node. Besides the terse form it
// accepts the older framework layout where text lives in "ranges" (or
// "leaves") and marks are {"type": name} objects.
type wireNode struct {
	Kind   string          `json:"kind"`
	Key    string          `json:"key"`
	Type   string          `json:"type"`
	Nodes  json.RawMessage `json:"nodes"`
	Text   *string         `json:"text"`
	Marks  []wireMark      `json:"marks"`
	Ranges []wireRange     `json:"ranges"`
	Leaves []wireRange     `json:"leaves"`
}

type wireRange struct {
	Text  string     `json:"text"`
	Marks []wireMark `json:"marks"`
}

// wireMark decodes either "bold" or {"type":"bold"}.
type wireMark string

func (m *wireMark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = wireMark(s)
		return nil
	}
	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Type == "" {
		return fmt.Errorf("mark object without type")
	}
	*m = wireMark(obj.Type)
	return nil
}

// Deserialize decodes a snapshot into a normalized document.
func Deserialize(data []byte) (*document.Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is %s, want object", ErrShape, root.Type)
	}
	nodes := root.Get("nodes")
	if !nodes.IsArray() {
		return nil, fmt.Errorf("%w: nodes is missing or not an array", ErrShape)
	}

	var raw []wireNode
	if err := json.Unmarshal([]byte(nodes.Raw), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}

	d := &decoder{seen: make(map[string]bool)}
	doc := &document.Document{}
	for i, w := range raw {
		n, err := d.node(w, fmt.Sprintf("nodes[%d]", i))
		if err != nil {
			return nil, err
		}
		if !n.IsBlock() {
			return nil, fmt.Errorf("%w: nodes[%d]: top-level node must be a block", ErrShape, i)
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	doc.Normalize()
	return doc, nil
}

type decoder struct {
	seen map[string]bool
}

// key keeps k unless it is empty or already used, in which case a fresh key
// is synthesized.
func (d *decoder) key(k string) string {
	if k == "" || d.seen[k] {
		k = document.NewKey()
	}
	d.seen[k] = true
	return k
}

func (d *decoder) node(w wireNode, path string) (*document.Node, error) {
	kind := w.Kind
	if kind == "" {
		switch {
		case w.Type != "":
			kind = string(document.KindBlock)
		case w.Text != nil || w.Ranges != nil || w.Leaves != nil:
			kind = string(document.KindText)
		default:
			return nil, fmt.Errorf("%w: %s: cannot infer node kind", ErrShape, path)
		}
	}

	switch document.Kind(kind) {
	case document.KindBlock:
		return d.block(w, path)
	case document.KindText:
		return nil, fmt.Errorf("%w: %s: text node outside a block", ErrShape, path)
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrShape, path, kind)
	}
}

func (d *decoder) block(w wireNode, path string) (*document.Node, error) {
	if w.Type == "" {
		return nil, fmt.Errorf("%w: %s: block without type", ErrShape, path)
	}
	b := &document.Node{Key: d.key(w.Key), Kind: document.KindBlock, Type: w.Type}

	var children []wireNode
	if len(w.Nodes) > 0 && string(w.Nodes) != "null" {
		if err := json.Unmarshal(w.Nodes, &children); err != nil {
			return nil, fmt.Errorf("%w: %s.nodes: %v", ErrShape, path, err)
		}
	}

	var hasText, hasBlock bool
	for i, c := range children {
		cpath := fmt.Sprintf("%s.nodes[%d]", path, i)
		if c.Kind == string(document.KindText) || (c.Kind == "" && c.Type == "") {
			leaves, err := d.text(c, cpath)
			if err != nil {
				return nil, err
			}
			b.Nodes = append(b.Nodes, leaves...)
			hasText = true
			continue
		}
		n, err := d.node(c, cpath)
		if err != nil {
			return nil, err
		}
		b.Nodes = append(b.Nodes, n)
		hasBlock = true
	}
	if hasText && hasBlock {
		return nil, fmt.Errorf("%w: %s: block mixes text and block children", ErrShape, path)
	}
	return b, nil
}

// text expands one wire text node into leaves. The ranges form yields one
// leaf per range.
func (d *decoder) text(w wireNode, path string) ([]*document.Node, error) {
	if w.Kind == "" && w.Text == nil && w.Ranges == nil && w.Leaves == nil {
		return nil, fmt.Errorf("%w: %s: cannot infer node kind", ErrShape, path)
	}
	ranges := w.Ranges
	if ranges == nil {
		ranges = w.Leaves
	}
	if ranges == nil {
		text := ""
		if w.Text != nil {
			text = *w.Text
		}
		ranges = []wireRange{{Text: text, Marks: w.Marks}}
	}

	leaves := make([]*document.Node, 0, len(ranges))
	for i, r := range ranges {
		leaf := &document.Node{Kind: document.KindText, Text: r.Text, Marks: markSet(r.Marks)}
		if i == 0 {
			leaf.Key = d.key(w.Key)
		} else {
			leaf.Key = d.key("")
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

func markSet(marks []wireMark) document.MarkSet {
	if len(marks) == 0 {
		return nil
	}
	out := make([]document.Mark, 0, len(marks))
	for _, m := range marks {
		if m != "" {
			out = append(out, document.Mark(m))
		}
	}
	return document.NewMarkSet(out...)
}
