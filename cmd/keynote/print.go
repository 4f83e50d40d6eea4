package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/keynote/internal/markdown"
	"github.com/dshills/keynote/internal/renderer"
)

type printOptions struct {
	width    int
	markdown bool
	style    string
	plain    bool
}

func newPrintCmd(root *rootOptions) *cobra.Command {
	opts := &printOptions{}
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render the stored document to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer s.Close()
			return runPrint(cmd, s, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Wrap width (default: terminal width)")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render through Markdown with glamour")
	cmd.Flags().StringVar(&opts.style, "style", string(markdown.StyleAuto), "Glamour style (auto, dark, light, notty)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Disable colors and attributes")
	return cmd
}

func runPrint(cmd *cobra.Command, s *session, opts *printOptions) error {
	doc := s.bridge.LoadInitial(cmd.Context())
	out := cmd.OutOrStdout()
	width := opts.width
	if width == 0 {
		width = terminalWidth(out)
	}

	if opts.markdown {
		style := markdown.Style(opts.style)
		if opts.plain {
			style = markdown.StyleNoTTY
		}
		rendered, err := markdown.Render(markdown.Export(doc), style, width)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(out, rendered)
		return err
	}

	printOpts := []renderer.PrintOption{renderer.WithWidth(width)}
	if opts.plain {
		printOpts = append(printOpts, renderer.WithProfile(termenv.Ascii))
	}
	return renderer.Print(out, doc, printOpts...)
}

// terminalWidth returns the width of w when it is a terminal, else zero.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
