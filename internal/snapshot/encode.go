package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/keynote/internal/document"
)

type wireDocument struct {
	Nodes []any `json:"nodes"`
}

type wireBlock struct {
	Kind  string `json:"kind"`
	Key   string `json:"key,omitempty"`
	Type  string `json:"type"`
	Nodes []any  `json:"nodes"`
}

type wireText struct {
	Kind  string   `json:"kind"`
	Key   string   `json:"key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Serialize encodes doc as a snapshot. A nil document encodes as the
// default document.
func Serialize(doc *document.Document, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	if doc == nil {
		doc = document.Default()
	}

	out := wireDocument{Nodes: encodeNodes(doc.Nodes, o)}
	var (
		data []byte
		err  error
	)
	if o.indent != "" {
		data, err = json.MarshalIndent(out, "", o.indent)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return data, nil
}

func encodeNodes(nodes []*document.Node, o options) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, encodeNode(n, o))
	}
	return out
}

func encodeNode(n *document.Node, o options) any {
	key := ""
	if o.keys {
		key = n.Key
	}
	if n.IsText() {
		t := wireText{Kind: string(document.KindText), Key: key, Text: n.Text}
		for _, m := range n.Marks.Sorted() {
			t.Marks = append(t.Marks, string(m))
		}
		return t
	}
	return wireBlock{
		Kind:  string(document.KindBlock),
		Key:   key,
		Type:  n.Type,
		Nodes: encodeNodes(n.Nodes, o),
	}
}
