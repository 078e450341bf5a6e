package daxgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/introspect"
	"github.com/lucasefe/daxgen/tabular"
)

// PreviewRows is the number of data rows returned with file analyses.
const PreviewRows = 5

// AnalyzeFile reads a CSV or XLSX file and analyzes it. The file type is
// taken from the extension.
func AnalyzeFile(path string, cfg *Config) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return AnalyzeReader(filepath.Base(path), f, cfg)
}

// AnalyzeReader analyzes file content. name is only used for its extension.
func AnalyzeReader(name string, r io.Reader, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)

	var table *tabular.Table
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".tsv", ".txt":
		table, err = tabular.ReadCSV(r)
	case ".xlsx", ".xlsm":
		table, err = tabular.ReadXLSX(r, tabular.WithSheet(cfg.Sheet))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	result, err := Analyze(table.Profile(tableName(cfg, ""), cfg.SampleSize), cfg)
	if err != nil {
		return nil, err
	}
	result.Preview = table.Preview(PreviewRows)
	return result, nil
}

// AnalyzeDB introspects a PostgreSQL table and analyzes it.
func AnalyzeDB(ctx context.Context, db introspect.Querier, table string, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)

	p, err := introspect.Table(ctx, db, table, introspectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect database: %w", err)
	}
	return Analyze(p, cfg)
}

// AnalyzeConnectionString connects to PostgreSQL, introspects a table and
// analyzes it.
func AnalyzeConnectionString(ctx context.Context, connStr, table string, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)

	p, err := introspect.FromConnectionString(ctx, connStr, table, introspectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect database: %w", err)
	}
	return Analyze(p, cfg)
}

func introspectOptions(cfg *Config) []introspect.Option {
	var opts []introspect.Option
	if cfg.Schema != "" {
		opts = append(opts, introspect.WithSchema(cfg.Schema))
	}
	if cfg.TableName != "" {
		opts = append(opts, introspect.WithDisplayName(cfg.TableName))
	}
	if cfg.NullCounts {
		opts = append(opts, introspect.WithNullCounts())
	}
	return opts
}

// AnalyzeExtraction analyzes a decoded extraction payload.
func AnalyzeExtraction(payload *extract.Payload, cfg *Config) (*Result, error) {
	cfg = orDefault(cfg)

	p := payload.Profile(DefaultTableName)
	if cfg.TableName != "" {
		p.TableName = cfg.TableName
	}

	result, err := Analyze(p, cfg)
	if err != nil {
		return nil, err
	}
	result.Preview = payload.SampleRows
	return result, nil
}

// AnalyzeImage extracts a table from an image and analyzes it.
func AnalyzeImage(ctx context.Context, ex extract.Extractor, data []byte, mimeType string, cfg *Config) (*Result, error) {
	payload, err := ex.ExtractImage(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to extract image: %w", err)
	}
	return AnalyzeExtraction(payload, cfg)
}

// AnalyzeText extracts a table from a free-text description and analyzes it.
func AnalyzeText(ctx context.Context, ex extract.Extractor, description string, cfg *Config) (*Result, error) {
	payload, err := ex.ExtractText(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("failed to extract description: %w", err)
	}
	return AnalyzeExtraction(payload, cfg)
}
