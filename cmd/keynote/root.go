package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keynote/internal/app"
	"github.com/dshills/keynote/internal/renderer/backend"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "keynote",
		Short: "A terminal rich-text notepad",
		Long: `keynote edits one rich-text document in the terminal. Formatting hotkeys
toggle bold, italic, underline, strikethrough and code over the selection, and
every change is saved to the configured store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd.Context(), opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (TOML or YAML)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.storeBackend, "store", "", "Storage backend (memory, file, sqlite, redis)")
	f.StringVar(&opts.primary, "primary", "", "Primary hotkey modifier (meta or ctrl)")
	f.BoolVarP(&opts.readOnly, "readonly", "R", false, "Start read-only")

	cmd.AddCommand(
		newPrintCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newResetCmd(opts),
		newBindingsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func runEditor(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	table, err := s.hotkeys(ctx)
	if err != nil {
		return err
	}
	primary, err := s.cfg.Primary()
	if err != nil {
		return err
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return &app.InitError{Component: "terminal", Err: err}
	}

	application, err := app.New(ctx, app.Options{
		Backend:     term,
		Bridge:      s.bridge,
		Table:       table,
		Primary:     primary,
		ReadOnly:    s.cfg.Editor.ReadOnly,
		ShowSidebar: s.cfg.Editor.ShowSidebar,
		StoreName:   s.storeName,
		Logger:      s.logger,
	})
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
