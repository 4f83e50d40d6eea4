package renderer

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/renderer/backend"
)

// PrintOption configures Print.
type PrintOption func(*printer)

// WithWidth wraps blocks at width columns. Zero disables wrapping.
func WithWidth(width int) PrintOption {
	return func(p *printer) { p.width = width }
}

// WithProfile forces a color profile instead of detecting one from the
// writer. termenv.Ascii prints plain text.
func WithProfile(profile termenv.Profile) PrintOption {
	return func(p *printer) {
		p.profile = profile
		p.forced = true
	}
}

// WithSchema replaces DefaultSchema.
func WithSchema(s *Schema) PrintOption {
	return func(p *printer) {
		if s != nil {
			p.schema = s
		}
	}
}

type printer struct {
	r       *lipgloss.Renderer
	schema  *Schema
	width   int
	profile termenv.Profile
	forced  bool
}

// Print writes doc to w as styled text, one line per leaf block.
func Print(w io.Writer, doc *document.Document, opts ...PrintOption) error {
	p := &printer{schema: DefaultSchema()}
	for _, opt := range opts {
		opt(p)
	}
	p.r = lipgloss.NewRenderer(w)
	if p.forced {
		p.r.SetColorProfile(p.profile)
	}
	if doc == nil {
		doc = document.Default()
	}

	var lines []string
	p.walk(doc.Nodes, 0, backend.DefaultStyle(), &lines)
	out := strings.Join(lines, "\n")
	if out != "" {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func (p *printer) walk(nodes []*document.Node, indent int, inherited backend.Style, lines *[]string) {
	for _, n := range nodes {
		if !n.IsBlock() {
			continue
		}
		bs := p.schema.Block(n.Type)
		style := inherited.Merge(bs.Style)
		if !n.IsLeafBlock() {
			p.walk(n.Nodes, indent+bs.Indent, style, lines)
			continue
		}
		*lines = append(*lines, p.leaf(n, indent, bs.Prefix, style))
	}
}

func (p *printer) leaf(b *document.Node, indent int, prefix string, base backend.Style) string {
	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(p.style(base).Render(prefix))
	}
	for _, t := range b.Nodes {
		if !t.IsText() || t.Text == "" {
			continue
		}
		sb.WriteString(p.style(p.schema.TextStyle(base, t.Marks)).Render(t.Text))
	}
	block := p.r.NewStyle().PaddingLeft(indent)
	if p.width > 0 {
		block = block.Width(p.width)
	}
	return block.Render(sb.String())
}

// style converts a cell style to lipgloss.
func (p *printer) style(s backend.Style) lipgloss.Style {
	ls := p.r.NewStyle().
		Bold(s.Has(backend.AttrBold)).
		Italic(s.Has(backend.AttrItalic)).
		Underline(s.Has(backend.AttrUnderline)).
		Strikethrough(s.Has(backend.AttrStrikethrough)).
		Reverse(s.Has(backend.AttrReverse)).
		Faint(s.Has(backend.AttrDim))
	if s.Fg != backend.ColorDefault {
		ls = ls.Foreground(lipgloss.Color(strconv.Itoa(int(s.Fg))))
	}
	if s.Bg != backend.ColorDefault {
		ls = ls.Background(lipgloss.Color(strconv.Itoa(int(s.Bg))))
	}
	return ls
}
