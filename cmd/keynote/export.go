package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keynote/internal/markdown"
	"github.com/dshills/keynote/internal/persist"
	"github.com/dshills/keynote/internal/snapshot"
	"github.com/dshills/keynote/internal/store"
)

type exportOptions struct {
	keys   bool
	indent bool
	meta   bool
	format string
	output string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored snapshot as JSON or Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer s.Close()
			return runExport(cmd, s, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.keys, "keys", false, "Include node keys")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "Indent the JSON")
	cmd.Flags().BoolVar(&opts.meta, "meta", false, "Stamp export metadata under \"meta\"")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, markdown)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, s *session, opts *exportOptions) error {
	doc := s.bridge.LoadInitial(cmd.Context())

	var data []byte
	switch opts.format {
	case "json":
		var sopts []snapshot.Option
		if opts.keys {
			sopts = append(sopts, snapshot.WithKeys())
		}
		if opts.indent {
			sopts = append(sopts, snapshot.WithIndent("  "))
		}
		var err error
		if data, err = snapshot.Serialize(doc, sopts...); err != nil {
			return err
		}
		if opts.meta {
			meta := snapshot.Meta{
				App:        "keynote",
				Version:    version,
				ExportedAt: time.Now(),
			}
			if at, err := s.bridge.SavedAt(cmd.Context()); err == nil {
				meta.SavedAt = at
			} else if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, persist.ErrNoTimestamp) {
				s.logger.Warn("export: save time: %v", err)
			}
			if data, err = snapshot.Stamp(data, meta); err != nil {
				return err
			}
		}
		data = append(data, '\n')
	case "markdown", "md":
		data = []byte(markdown.Export(doc))
	default:
		return fmt.Errorf("unknown export format %q (must be json or markdown)", opts.format)
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", opts.output)
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
