// Package markdown exports documents as Markdown and renders Markdown for
// the terminal with glamour.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dshills/keynote/internal/document"
)

// Export converts doc to Markdown. Headers become level one headings, leaf
// sections level two, and group children are quoted. Blocks are separated
// by blank lines.
func Export(doc *document.Document) string {
	if doc == nil {
		doc = document.Default()
	}
	var blocks []string
	exportNodes(doc.Nodes, "", &blocks)
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func exportNodes(nodes []*document.Node, quote string, out *[]string) {
	for _, n := range nodes {
		if !n.IsBlock() {
			continue
		}
		if !n.IsLeafBlock() {
			inner := quote
			if n.Type == document.TypeGroup {
				inner += "> "
			}
			exportNodes(n.Nodes, inner, out)
			continue
		}
		text := Inline(n)
		switch n.Type {
		case document.TypeHeader:
			text = "# " + text
		case document.TypeSection:
			text = "## " + text
		default:
			text = escapeLeading(text)
		}
		*out = append(*out, quote+text)
	}
}

// Inline renders the text leaves of a leaf block.
func Inline(b *document.Node) string {
	var sb strings.Builder
	for _, t := range b.Nodes {
		if t.IsText() && t.Text != "" {
			sb.WriteString(leaf(t.Text, t.Marks))
		}
	}
	return sb.String()
}

// wrappers are applied from the inside out.
var wrappers = []struct {
	mark       document.Mark
	open, shut string
}{
	{document.MarkBold, "**", "**"},
	{document.MarkItalic, "*", "*"},
	{document.MarkStrikethrough, "~~", "~~"},
	{document.MarkUnderline, "<u>", "</u>"},
}

func leaf(text string, marks document.MarkSet) string {
	// Emphasis delimiters must touch non-space text.
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	lead, trail := text[:start], text[start+len(core):]

	if marks.Has(document.MarkCode) {
		core = codeSpan(core)
	} else {
		core = escape(core)
	}
	for _, w := range wrappers {
		if marks.Has(w.mark) {
			core = w.open + core + w.shut
		}
	}
	return lead + core + trail
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"~", `\~`,
	"<", `\<`,
	"[", `\[`,
	"]", `\]`,
)

func escape(s string) string { return escaper.Replace(s) }

// escapeLeading escapes a paragraph's first marker so it stays a paragraph
// instead of starting a block construct.
func escapeLeading(text string) string {
	body := strings.TrimLeft(text, " ")
	indent := text[:len(text)-len(body)]
	if body == "" {
		return text
	}
	switch body[0] {
	case '#', '-', '+', '>', '=', '|':
		return indent + `\` + body
	}
	digits := 0
	for digits < len(body) && digits < 9 && body[digits] >= '0' && body[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(body) && (body[digits] == '.' || body[digits] == ')') {
		return indent + body[:digits] + `\` + body[digits:]
	}
	return text
}

func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

// Style selects a glamour style. "auto" detects the terminal background.
type Style string

// Glamour styles.
const (
	StyleAuto  Style = "auto"
	StyleDark  Style = "dark"
	StyleLight Style = "light"
	StyleNoTTY Style = "notty"
)

// Render formats Markdown for a terminal of the given width. A width of
// zero disables word wrapping.
func Render(md string, style Style, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(string(style)))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
