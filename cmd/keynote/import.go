package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keynote/internal/app"
	"github.com/dshills/keynote/internal/snapshot"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a snapshot and store it (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			info, err := snapshot.Inspect(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "valid snapshot: %d blocks, %d text leaves\n", info.Blocks, info.Texts)
				return nil
			}

			s, err := openSession(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.bridge.Import(cmd.Context(), data)
			if err != nil {
				return app.NewOperationError("import", s.bridge.Key(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d blocks into %s\n", len(doc.LeafBlocks()), s.storeName)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Validate only")
	return cmd
}
