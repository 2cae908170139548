package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rnacolumns/internal/columns"
)

func newDecodeCmd(flags *globalFlags) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "decode <configuration-string>",
		Short: "Show the tokens and sort index of a stored configuration string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := columns.Decode(args[0])
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "INDEX\tKIND\tCOLUMN\n")
			for i, t := range cfg.Tokens {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i, t.Kind(), t.Label())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sort index: %d\n", cfg.SortIndex)
			if !resolve {
				return nil
			}

			a, err := newApp(cmd.Context(), cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()
			cols, sortIndex, err := a.svc.Describe(args[0], false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved %d of %d column(s), display sort %d\n", len(cols), cfg.Len(), sortIndex)
			for i, c := range cols {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d %s\n", i, c.Title())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve the tokens against the expression matrix")
	return cmd
}
