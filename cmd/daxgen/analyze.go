package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lucasefe/daxgen"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var flags analysisFlags
	var sheet string

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(a.cfg, a.cfg.Analysis.DefaultTable)
			if err != nil {
				return err
			}
			cfg.Sheet = sheet

			slog.Debug("analyzing file", "path", args[0], "table", cfg.TableName, "rule_set", cfg.RuleSet)
			result, err := daxgen.AnalyzeFile(args[0], cfg)
			if err != nil {
				return err
			}
			return flags.emit(cmd.OutOrStdout(), result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	return cmd
}
