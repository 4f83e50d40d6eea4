package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBindingsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "List the effective hotkey table in resolution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer s.Close()

			table, err := s.hotkeys(cmd.Context())
			if err != nil {
				return err
			}
			primary, err := s.cfg.Primary()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHORD\tMARK\tSOURCE")
			for _, b := range table.Bindings() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Spec(primary), b.Mark, b.Source)
			}
			return w.Flush()
		},
	}
}
