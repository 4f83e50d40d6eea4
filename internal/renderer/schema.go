package renderer

import (
	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/renderer/backend"
)

// BlockStyle is the presentation of one block type.
type BlockStyle struct {
	// Prefix is drawn before the first line of a leaf block.
	Prefix string

	// Indent shifts the block's children right.
	Indent int

	Style backend.Style
}

// Schema maps block types and marks to presentation.
type Schema struct {
	Blocks map[string]BlockStyle
	Marks  map[document.Mark]backend.Style

	// Fallback is used for block types missing from Blocks.
	Fallback BlockStyle
}

// DefaultSchema returns the built-in presentation.
func DefaultSchema() *Schema {
	plain := backend.DefaultStyle()
	return &Schema{
		Blocks: map[string]BlockStyle{
			document.TypeParagraph: {Style: plain},
			document.TypeHeader:    {Style: plain.With(backend.AttrBold).Foreground(backend.ColorCyan)},
			document.TypeSection:   {Style: plain.With(backend.AttrUnderline)},
			document.TypeGroup:     {Indent: 2, Style: plain},
		},
		Marks: map[document.Mark]backend.Style{
			document.MarkBold:          plain.With(backend.AttrBold),
			document.MarkItalic:        plain.With(backend.AttrItalic),
			document.MarkUnderline:     plain.With(backend.AttrUnderline),
			document.MarkStrikethrough: plain.With(backend.AttrStrikethrough),
			document.MarkCode:          plain.With(backend.AttrDim).Foreground(backend.ColorYellow),
		},
		Fallback: BlockStyle{Style: plain},
	}
}

// Block returns the presentation of a block type.
func (s *Schema) Block(typ string) BlockStyle {
	if b, ok := s.Blocks[typ]; ok {
		return b
	}
	return s.Fallback
}

// TextStyle combines base with the style of every known mark in marks.
// Unknown marks render plain.
func (s *Schema) TextStyle(base backend.Style, marks document.MarkSet) backend.Style {
	for _, m := range marks.Sorted() {
		if ms, ok := s.Marks[m]; ok {
			base = base.Merge(ms)
		}
	}
	return base
}
