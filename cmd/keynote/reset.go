package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keynote/internal/app"
)

func newResetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.bridge.Reset(cmd.Context()); err != nil {
				return app.NewOperationError("reset", s.bridge.Key(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q from %s\n", s.bridge.Key(), s.storeName)
			return nil
		},
	}
}
