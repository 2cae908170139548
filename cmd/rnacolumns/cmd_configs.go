package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newConfigsCmd(flags *globalFlags) *cobra.Command {
	var workspace string
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List, copy, delete and rename saved configurations",
	}
	cmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace that owns the configurations (required)")
	_ = cmd.MarkPersistentFlagRequired("workspace")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.Close()
			summaries, err := a.svc.Configurations(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tSORT\tCOLUMNS\n")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.SortIndex, strings.Join(s.Columns, " "))
			}
			return w.Flush()
		},
	}

	save := &cobra.Command{
		Use:   "save <source> <target>",
		Short: "Copy a configuration under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.Close()
			n, err := a.svc.SaveAs(cmd.Context(), workspace, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d columns saved.\n", n)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete saved configurations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.Close()
			n, err := a.svc.DeleteConfigurations(cmd.Context(), workspace, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d configuration(s) deleted.\n", n)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a saved configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.Close()
			name, err := a.svc.RenameConfiguration(cmd.Context(), workspace, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s renamed to %s.\n", args[0], name)
			return nil
		},
	}

	cmd.AddCommand(list, save, del, rename)
	return cmd
}
