package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rnacolumns/internal/columns"
	"rnacolumns/internal/core"
	"rnacolumns/internal/table"
	"rnacolumns/pkg/domain"
)

type columnsFlags struct {
	workspace     string
	configuration string
	primary       []string
	secondary     string
	strategy      string
	deleteIndex   int
	sortIndex     int
	reset         bool
	raw           bool
	qualifier     string
	filter        string
	limits        string
	order         string
}

func newColumnsCmd(flags *globalFlags) *cobra.Command {
	var cf columnsFlags
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Apply a column request and print the resulting table as TSV",
		Example: `  rnacolumns columns -w lab -p 7_0_0_A_asdO_000_D000_0_9_M1 --strategy TIME1
  rnacolumns columns -w lab --delete 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := cf.request()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()
			out, err := a.svc.Apply(cmd.Context(), req)
			if err != nil {
				return err
			}
			if out.Dropped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d stored column(s) no longer resolve and were skipped\n", out.Dropped)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "configuration %s: %s\n", out.Configuration, out.Stored)
			return table.WriteTSV(cmd.OutOrStdout(), out.Table)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cf.workspace, "workspace", "w", "", "workspace that owns the configuration (required)")
	f.StringVarP(&cf.configuration, "config", "c", "", "configuration name (default Default)")
	f.StringSliceVarP(&cf.primary, "primary", "p", nil, "primary sample(s) to add")
	f.StringVarP(&cf.secondary, "secondary", "s", "", "denominator sample, or \"baseline\"")
	f.StringVar(&cf.strategy, "strategy", "SINGLE", "column strategy: SINGLE, TIME1, TIMES or ALL")
	f.IntVar(&cf.deleteIndex, "delete", -1, "column index to delete")
	f.IntVar(&cf.sortIndex, "sort", -1, "column index to sort by")
	f.BoolVar(&cf.reset, "reset", false, "start from an empty configuration")
	f.BoolVar(&cf.raw, "raw", false, "use the raw expression matrix")
	f.StringVar(&cf.qualifier, "qualifier", "RATIO", "columns to range color: RATIO, VALUE or NONE")
	f.StringVar(&cf.filter, "filter", "ALL", "row filter: ALL or VARIANT")
	f.StringVar(&cf.limits, "range", "", "comma-separated range limits (at most 3)")
	f.StringVar(&cf.order, "order", "LOCATION", "row order within equal sort values: LOCATION or CHANGES")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func (cf columnsFlags) request() (core.Request, error) {
	req := core.NewRequest(cf.workspace)
	req.Configuration = cf.configuration
	req.Primary = cf.primary
	req.Secondary = cf.secondary
	req.DeleteIndex = cf.deleteIndex
	req.SortIndex = cf.sortIndex
	req.Reset = cf.reset
	req.Raw = cf.raw

	var err error
	if req.Strategy, err = columns.ParseStrategy(cf.strategy); err != nil {
		return core.Request{}, &domain.ConfigError{Op: "strategy", Message: fmt.Sprintf("unknown column strategy %q", cf.strategy), Err: err}
	}
	if req.Qualifier, err = columns.ParseQualifier(cf.qualifier); err != nil {
		return core.Request{}, err
	}
	if req.Filter, err = columns.ParseRowFilter(cf.filter); err != nil {
		return core.Request{}, err
	}
	if req.Limits, err = columns.ParseRangeLimits(cf.limits); err != nil {
		return core.Request{}, err
	}
	if req.Order, err = columns.ParseFeatureOrder(cf.order); err != nil {
		return core.Request{}, err
	}
	return req, nil
}
