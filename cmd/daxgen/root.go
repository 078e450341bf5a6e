package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasefe/daxgen/internal/config"
	"github.com/lucasefe/daxgen/internal/logger"
)

const version = "0.1.0"

// app holds the state shared by every subcommand once the root has loaded the
// configuration.
type app struct {
	cfgFile  string
	cfg      *config.Config
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "daxgen",
		Short:   "Generate DAX measures, KPIs and chart suggestions from a table schema",
		Version: version,
		Long: `daxgen reads a table schema from a CSV or XLSX file, a PostgreSQL table,
or an image of a table, classifies its columns as numeric, categorical or
temporal, and generates a catalog of DAX measures together with KPI/OKR
insights and chart recommendations.`,
		Example: `  # Analyze a CSV file
  $ daxgen analyze ventas.csv --table Ventas

  # Only time intelligence measures, written to a file
  $ daxgen analyze ventas.xlsx --category time_intelligence --output .

  # Introspect a PostgreSQL table
  $ daxgen introspect --dsn "postgres://localhost/db" --table ventas

  # Extract a table from a screenshot
  $ daxgen extract captura.png

  # Run the HTTP API
  $ daxgen serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Name() == "serve")
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("daxgen version %s\n", version))
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./configs/config.yaml or ./config.yaml)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newIntrospectCmd(a),
		newExtractCmd(a),
		newServeCmd(a),
	)

	return root
}

// load reads the configuration and sets up logging. Outside of serve, logs go
// to stderr so stdout only carries the command output.
func (a *app) load(serving bool) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if !serving && cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	_, closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	a.cfg = cfg
	a.closeLog = closeLog
	return nil
}

// close releases the log output opened by load. It is safe to call more than
// once; cobra skips PersistentPostRunE when a command fails, so main calls it
// too.
func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	closeLog := a.closeLog
	a.closeLog = nil
	if err := closeLog(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// databaseURL falls back to the DATABASE_URL environment variable.
func databaseURL(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("DATABASE_URL")
}
