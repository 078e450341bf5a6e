package daxgen

import (
	"errors"
	"fmt"

	"github.com/lucasefe/daxgen/generator"
	"github.com/lucasefe/daxgen/profile"
)

// DefaultTableName is the table label used when none is configured.
const DefaultTableName = "Datos"

// ErrUnsupportedFile is returned for file types other than CSV and XLSX.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Config controls an analysis. A nil *Config uses the defaults.
type Config struct {
	// TableName is the label used inside generated expressions. Sources that
	// carry their own name (a database table, an extraction) use theirs when
	// this is empty; otherwise DefaultTableName applies.
	TableName string
	// RuleSet selects the optional measures. Defaults to RuleSetExtended.
	RuleSet generator.RuleSet
	// ExcludeColumns are dropped from the profile before generation.
	ExcludeColumns []string
	// Category restricts the returned measures. Empty returns all.
	Category generator.Category
	// SampleSize is the number of values inspected per file column.
	SampleSize int
	// Sheet selects the XLSX sheet. Defaults to the first.
	Sheet string
	// Schema is the PostgreSQL schema. Defaults to "public".
	Schema string
	// NullCounts counts NULLs when introspecting a database.
	NullCounts bool
}

// Result holds the profile and the three generated catalogs.
type Result struct {
	Profile  *profile.Profile            `json:"profile"`
	Measures []generator.Measure         `json:"measures"`
	Insights []generator.Insight         `json:"insights"`
	Charts   []generator.ChartSuggestion `json:"charts"`
	// Categories lists every category of the unfiltered catalog.
	Categories []generator.Category `json:"categories"`
	// Preview holds the first rows of file sources.
	Preview [][]string `json:"preview,omitempty"`
}

func orDefault(cfg *Config) *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

// Analyze runs the generators over a profile. It rejects profiles with
// duplicate column names and verifies that every insight reference resolves
// against the generated catalog.
func Analyze(p *profile.Profile, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)

	if len(cfg.ExcludeColumns) > 0 {
		p = profile.ExcludeColumns(p, cfg.ExcludeColumns)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.TableName == "" {
		named := *p
		named.TableName = DefaultTableName
		p = &named
	}

	measures := generator.GenerateMeasures(p, p.TableName, generator.WithRuleSet(cfg.RuleSet))
	insights := generator.SuggestKPIs(p, p.TableName)
	if err := generator.CheckReferences(insights, measures); err != nil {
		return nil, fmt.Errorf("inconsistent measure catalog: %w", err)
	}

	return &Result{
		Profile:    p,
		Measures:   generator.FilterByCategory(measures, cfg.Category),
		Insights:   insights,
		Charts:     generator.RecommendCharts(p),
		Categories: generator.Categories(measures),
	}, nil
}

// AnalyzeStorageTypes classifies columns described by storage types and
// analyzes the resulting profile.
func AnalyzeStorageTypes(columns []profile.StorageColumn, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)
	return Analyze(profile.FromStorageTypes(tableName(cfg, ""), columns), cfg)
}

// AnalyzeLabels classifies columns that already carry a semantic label and
// analyzes the resulting profile.
func AnalyzeLabels(columns []profile.LabeledColumn, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)
	return Analyze(profile.FromLabels(tableName(cfg, ""), columns), cfg)
}

// tableName resolves the expression label: configured, then source, then default.
func tableName(cfg *Config, source string) string {
	if cfg.TableName != "" {
		return cfg.TableName
	}
	if source != "" {
		return source
	}
	return DefaultTableName
}
