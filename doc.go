// Package daxgen suggests DAX measures, KPI/OKR insights and chart types for
// a tabular dataset.
//
// A dataset is first reduced to a profile.Profile: every column is classified
// as numeric, categorical or temporal. The generators in package generator
// then derive their catalogs from that profile alone.
//
// # Basic Usage
//
// Analyze a CSV or XLSX file:
//
//	import "github.com/lucasefe/daxgen"
//
//	result, err := daxgen.AnalyzeFile("ventas.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range result.Measures {
//	    fmt.Println(m.Expression)
//	}
//
// # Configuration
//
// Use Config to set the table label and the rule set:
//
//	config := &daxgen.Config{
//	    TableName:      "Ventas",
//	    RuleSet:        generator.RuleSetMinimal,
//	    ExcludeColumns: []string{"id"},
//	}
//	result, err := daxgen.AnalyzeFile("ventas.xlsx", config)
//
// # Other Sources
//
// A PostgreSQL table:
//
//	result, err := daxgen.AnalyzeConnectionString(ctx, connStr, "ventas", nil)
//
// An image or description of a table, through an extract.Extractor:
//
//	client := extract.NewClient(extract.Config{APIKey: key}, nil)
//	result, err := daxgen.AnalyzeImage(ctx, client, data, "image/png", nil)
//
// # Export
//
// The measure catalog can be written as the plain-text export:
//
//	err := daxgen.WriteMeasuresToFile(daxgen.ExportFileName("Ventas"), result.Measures)
//
// # Subpackages
//
//   - github.com/lucasefe/daxgen/profile - Column kinds, the classifier and the profile type
//   - github.com/lucasefe/daxgen/generator - Measure, insight and chart generation
//   - github.com/lucasefe/daxgen/tabular - CSV and XLSX readers
//   - github.com/lucasefe/daxgen/introspect - PostgreSQL introspection with functional options
//   - github.com/lucasefe/daxgen/extract - Vision and text extraction through an OpenAI-compatible API
package daxgen
