package markdown

import (
	"strings"
	"testing"

	"github.com/dshills/keynote/internal/document"
)

func TestExport(t *testing.T) {
	doc := document.New(
		document.NewBlock(document.TypeHeader, document.NewText("Notes")),
		document.NewBlock(document.TypeParagraph,
			document.NewText("plain "),
			document.NewText("bold", document.MarkBold),
			document.NewText(" and "),
			document.NewText("both ", document.MarkBold, document.MarkItalic),
			document.NewText("x := 1", document.MarkCode),
		),
		document.NewBlock(document.TypeGroup,
			document.NewBlock(document.TypeParagraph, document.NewText("quoted", document.MarkUnderline)),
		),
		document.NewBlock(document.TypeSection, document.NewText("gone", document.MarkStrikethrough)),
	)

	want := "# Notes\n\n" +
		"plain **bold** and ***both*** `x := 1`\n\n" +
		"> <u>quoted</u>\n\n" +
		"## ~~gone~~\n"
	if got := Export(doc); got != want {
		t.Errorf("Export =\n%q\nwant\n%q", got, want)
	}
}

func TestLeaf(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		marks []document.Mark
		want  string
	}{
		{"plain", "hi", nil, "hi"},
		{"escaped", "a*b_c", nil, `a\*b\_c`},
		{"spaces outside", "  x ", []document.Mark{document.MarkItalic}, "  *x* "},
		{"only spaces", "   ", []document.Mark{document.MarkBold}, "   "},
		{"code not escaped", "a*b", []document.Mark{document.MarkCode}, "`a*b`"},
		{"code with backtick", "a`b", []document.Mark{document.MarkCode}, "``a`b``"},
		{"code edge backtick", "`x", []document.Mark{document.MarkCode}, "`` `x ``"},
		{"bold code", "f()", []document.Mark{document.MarkCode, document.MarkBold}, "**`f()`**"},
		{"unknown mark", "z", []document.Mark{"sparkle"}, "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leaf(tt.text, document.NewMarkSet(tt.marks...)); got != tt.want {
				t.Errorf("leaf(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExportBlockMarkers(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"#1 item", `\#1 item`},
		{"- item", `\- item`},
		{"+ item", `\+ item`},
		{"> not a quote", `\> not a quote`},
		{"= rule", `\= rule`},
		{"| a | b |", `\| a | b |`},
		{"1. one", `1\. one`},
		{"12) twelve", `12\) twelve`},
		{"  - indented", `  \- indented`},
		{"2024 was a year", "2024 was a year"},
		{"a - b", "a - b"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			doc := document.New(document.NewBlock(document.TypeParagraph, document.NewText(tt.text)))
			if got := Export(doc); got != tt.want+"\n" {
				t.Errorf("Export(%q) = %q, want %q", tt.text, got, tt.want+"\n")
			}
		})
	}
}

func TestExportItalicInsideWord(t *testing.T) {
	doc := document.New(document.NewBlock(document.TypeParagraph,
		document.NewText("ef"),
		document.NewText("gh", document.MarkItalic),
		document.NewText("ij"),
	))
	if got := Export(doc); got != "ef*gh*ij\n" {
		t.Errorf("Export = %q, want %q", got, "ef*gh*ij\n")
	}
}

func TestExportDefault(t *testing.T) {
	if got := Export(document.Default()); got != "\n" {
		t.Errorf("Export(default) = %q, want a single empty block", got)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nsome **bold** text\n", StyleNoTTY, 40)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"Title", "bold", "text"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
}
