package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/generator"
	"github.com/lucasefe/daxgen/internal/config"
)

// analysisFlags are shared by every command that produces a Result.
type analysisFlags struct {
	table      string
	ruleSet    string
	category   string
	exclude    []string
	format     string
	output     string
	sampleSize int
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.table, "table", "t", "", "table name used inside the DAX expressions")
	flags.StringVar(&f.ruleSet, "rule-set", "", "measure rule set: minimal or extended (default from config)")
	flags.StringVarP(&f.category, "category", "c", "", "only print measures of this category")
	flags.StringSliceVarP(&f.exclude, "exclude", "x", nil, "comma-separated columns to exclude")
	flags.StringVarP(&f.format, "format", "f", "text", "output format: text or json")
	flags.StringVarP(&f.output, "output", "o", "", "write the measure export to this file or directory")
	flags.IntVar(&f.sampleSize, "sample-size", 0, "values inspected per file column (default from config)")
}

// config builds the facade config. fallbackTable applies when --table is not
// given; commands whose source carries a name pass "".
func (f *analysisFlags) config(cfg *config.Config, fallbackTable string) (*daxgen.Config, error) {
	if f.format != "text" && f.format != "json" {
		return nil, fmt.Errorf("invalid format %q, must be 'text' or 'json'", f.format)
	}

	ruleSet := cfg.RuleSet()
	if f.ruleSet != "" {
		var ok bool
		if ruleSet, ok = generator.ParseRuleSet(f.ruleSet); !ok {
			return nil, fmt.Errorf("invalid rule set %q, must be 'minimal' or 'extended'", f.ruleSet)
		}
	}

	var category generator.Category
	if f.category != "" {
		var ok bool
		if category, ok = generator.ParseCategory(f.category); !ok {
			return nil, fmt.Errorf("unknown category %q", f.category)
		}
	}

	sampleSize := f.sampleSize
	if sampleSize <= 0 {
		sampleSize = cfg.Analysis.SampleSize
	}

	table := f.table
	if table == "" {
		table = fallbackTable
	}

	return &daxgen.Config{
		TableName:      table,
		RuleSet:        ruleSet,
		Category:       category,
		ExcludeColumns: f.exclude,
		SampleSize:     sampleSize,
	}, nil
}

// emit prints the result and writes the export file when --output is set.
func (f *analysisFlags) emit(w io.Writer, result *daxgen.Result) error {
	if f.format == "json" {
		data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else {
		printResult(w, result)
	}

	if f.output == "" {
		return nil
	}

	path := exportPath(f.output, result.Profile.TableName)
	if err := daxgen.WriteMeasuresToFile(path, result.Measures); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printSuccess(os.Stderr, "%d measures written to %s", len(result.Measures), path)
	return nil
}

// exportPath resolves --output: a directory receives the default file name.
func exportPath(output, table string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, daxgen.ExportFileName(table))
	}
	return output
}
