package snapshot

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Meta describes an exported snapshot. It lives under the "meta" key, which
// Deserialize ignores.
type Meta struct {
	App        string
	Version    string
	ExportedAt time.Time
	SavedAt    time.Time
}

// Stamp writes m into the snapshot's "meta" object.
func Stamp(data []byte, m Meta) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	var err error
	if m.App != "" {
		if data, err = sjson.SetBytes(data, "meta.app", m.App); err != nil {
			return nil, fmt.Errorf("snapshot: stamp app: %w", err)
		}
	}
	if m.Version != "" {
		if data, err = sjson.SetBytes(data, "meta.version", m.Version); err != nil {
			return nil, fmt.Errorf("snapshot: stamp version: %w", err)
		}
	}
	if !m.ExportedAt.IsZero() {
		ts := m.ExportedAt.UTC().Format(time.RFC3339)
		if data, err = sjson.SetBytes(data, "meta.exported_at", ts); err != nil {
			return nil, fmt.Errorf("snapshot: stamp time: %w", err)
		}
	}
	if !m.SavedAt.IsZero() {
		ts := m.SavedAt.UTC().Format(time.RFC3339)
		if data, err = sjson.SetBytes(data, "meta.saved_at", ts); err != nil {
			return nil, fmt.Errorf("snapshot: stamp save time: %w", err)
		}
	}
	return data, nil
}

// Info summarizes a snapshot without decoding it.
type Info struct {
	Blocks int
	Texts  int
	Keyed  bool
	Meta   Meta
}

// Inspect summarizes data. Input that Deserialize rejects is rejected here
// with the same error.
func Inspect(data []byte) (Info, error) {
	if _, err := Deserialize(data); err != nil {
		return Info{}, err
	}
	root := gjson.ParseBytes(data)
	nodes := root.Get("nodes")

	var info Info
	var walk func(gjson.Result)
	walk = func(n gjson.Result) {
		if n.Get("key").Exists() {
			info.Keyed = true
		}
		kind := n.Get("kind").String()
		if kind == "text" || (kind == "" && n.Get("type").String() == "") {
			info.Texts++
			return
		}
		info.Blocks++
		n.Get("nodes").ForEach(func(_, child gjson.Result) bool {
			walk(child)
			return true
		})
	}
	nodes.ForEach(func(_, n gjson.Result) bool {
		walk(n)
		return true
	})

	meta := root.Get("meta")
	info.Meta.App = meta.Get("app").String()
	info.Meta.Version = meta.Get("version").String()
	info.Meta.ExportedAt = parseTime(meta.Get("exported_at").String())
	info.Meta.SavedAt = parseTime(meta.Get("saved_at").String())
	return info, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
