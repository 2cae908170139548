package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "rnacolumns",
		Short:         "Manage RNA expression column configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file read before the environment (missing is fine)")
	pf.StringVar(&flags.dataFile, "data", "", "expression matrix (.csv, .tsv or .xlsx); overrides RNACOLUMNS_DATA_FILE")
	pf.StringVar(&flags.samples, "samples", "", "sample metadata file; overrides RNACOLUMNS_SAMPLES_FILE")
	pf.StringVar(&flags.rawFile, "raw-data", "", "raw expression matrix; overrides RNACOLUMNS_RAW_DATA_FILE")
	pf.BoolVar(&flags.trace, "trace", false, "write one JSON trace line per service operation to stderr")

	root.AddCommand(
		newServeCmd(flags),
		newColumnsCmd(flags),
		newDecodeCmd(flags),
		newConfigsCmd(flags),
	)
	return root
}
