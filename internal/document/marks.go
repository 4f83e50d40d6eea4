package document

import (
	"sort"
	"strings"
)

// Mark is an inline formatting tag applied to a text leaf.
type Mark string

// Known marks.
const (
	MarkBold          Mark = "bold"
	MarkCode          Mark = "code"
	MarkItalic        Mark = "italic"
	MarkStrikethrough Mark = "strikethrough"
	MarkUnderline     Mark = "underline"
)

// KnownMarks lists the marks the renderer knows how to present.
var KnownMarks = []Mark{MarkBold, MarkCode, MarkItalic, MarkStrikethrough, MarkUnderline}

// IsKnown reports whether m is one of KnownMarks.
func (m Mark) IsKnown() bool {
	for _, k := range KnownMarks {
		if k == m {
			return true
		}
	}
	return false
}

// MarkSet is an unordered set of marks. The nil set is empty.
type MarkSet map[Mark]struct{}

// NewMarkSet returns a set holding the given marks.
func NewMarkSet(marks ...Mark) MarkSet {
	if len(marks) == 0 {
		return nil
	}
	s := make(MarkSet, len(marks))
	for _, m := range marks {
		s[m] = struct{}{}
	}
	return s
}

// Has reports whether the set contains m.
func (s MarkSet) Has(m Mark) bool {
	_, ok := s[m]
	return ok
}

// Len returns the number of marks in the set.
func (s MarkSet) Len() int { return len(s) }

// With returns a copy of the set with m added.
func (s MarkSet) With(m Mark) MarkSet {
	out := s.Clone()
	if out == nil {
		out = make(MarkSet, 1)
	}
	out[m] = struct{}{}
	return out
}

// Without returns a copy of the set with m removed.
func (s MarkSet) Without(m Mark) MarkSet {
	if !s.Has(m) {
		return s.Clone()
	}
	out := s.Clone()
	delete(out, m)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns an independent copy of the set.
func (s MarkSet) Clone() MarkSet {
	if len(s) == 0 {
		return nil
	}
	out := make(MarkSet, len(s))
	for m := range s {
		out[m] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same marks.
func (s MarkSet) Equal(other MarkSet) bool {
	if len(s) != len(other) {
		return false
	}
	for m := range s {
		if !other.Has(m) {
			return false
		}
	}
	return true
}

// Sorted returns the marks in lexical order.
func (s MarkSet) Sorted() []Mark {
	if len(s) == 0 {
		return nil
	}
	out := make([]Mark, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s MarkSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, m := range sorted {
		parts[i] = string(m)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
