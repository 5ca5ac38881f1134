package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

type jobOptions struct {
	input            string
	output           string
	report           string
	classification   string
	idFormat         string
	strict           bool
	defaultBasePrice int64
	sqlitePath       string
	postgresURL      string
	metricsTextfile  string
}

func newRootCmd() *cobra.Command {
	var root rootOptions

	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Convert and merge IPL auction lists into the players JSON dataset",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&root.configPath, "config", "", "YAML config file layered over environment settings")
	cmd.PersistentFlags().StringVar(&root.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&root.logFormat, "log-format", "", "Log format: text or json")

	cmd.AddCommand(newConvertCmd(&root), newMergeCmd(&root))
	return cmd
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	var opts jobOptions

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rebuild the players dataset from an auction list CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, &opts)
		},
	}
	bindJobFlags(cmd, &opts)
	return cmd
}

func newMergeCmd(root *rootOptions) *cobra.Command {
	var opts jobOptions

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Append players not yet present in the existing dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, root, &opts)
		},
	}
	bindJobFlags(cmd, &opts)
	return cmd
}

func bindJobFlags(cmd *cobra.Command, opts *jobOptions) {
	cmd.Flags().StringVar(&opts.input, "input", "", "Auction list CSV (default: ROSTER_INPUT or auction_list.csv)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Players JSON dataset (default: ROSTER_OUTPUT or src/data/players.json)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Run report path, or \"none\" to disable (default: <output>.report.json)")
	cmd.Flags().StringVar(&opts.classification, "classification", "", "Category strategy: lookup, heuristic or auto")
	cmd.Flags().StringVar(&opts.idFormat, "id-format", "", "Player id format: padded or prefixed")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Skip rows whose set code is not in the lookup table")
	cmd.Flags().Int64Var(&opts.defaultBasePrice, "default-base-price", 0, "Base price in rupees when the price cell is unreadable")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "Mirror the written players into this SQLite file")
	cmd.Flags().StringVar(&opts.postgresURL, "postgres", "", "Mirror the written players into this Postgres database")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format to this path")
}
