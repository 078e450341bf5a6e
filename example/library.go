//go:build ignore

// This file demonstrates various ways to use the daxgen packages as a library.
// Run with: go run library.go [connection_string]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/generator"
	"github.com/lucasefe/daxgen/introspect"
	"github.com/lucasefe/daxgen/profile"
)

func main() {
	fmt.Println("=== Example 1: Storage Types ===")
	storageTypes()

	fmt.Println("\n=== Example 2: Generators Directly ===")
	generatorsDirectly()

	fmt.Println("\n=== Example 3: Extraction Payload ===")
	extractionPayload()

	if len(os.Args) > 1 {
		fmt.Println("\n=== Example 4: PostgreSQL With Custom Type Mapping ===")
		customTypeMapping(os.Args[1])
	}
}

// storageTypes shows the simplest way to analyze a schema
func storageTypes() {
	result, err := daxgen.AnalyzeStorageTypes([]profile.StorageColumn{
		{Name: "Fecha", StorageType: "date"},
		{Name: "Region", StorageType: "varchar(50)"},
		{Name: "Monto", StorageType: "numeric(12,2)"},
	}, &daxgen.Config{TableName: "Ventas", RuleSet: generator.RuleSetMinimal})
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	printPreview("Measures", generator.RenderMeasuresString(result.Measures))
}

// generatorsDirectly builds a profile by hand and calls each generator
func generatorsDirectly() {
	p := profile.FromLabels("Pedidos", []profile.LabeledColumn{
		{Name: "Cantidad", Label: "numerico"},
		{Name: "Precio", Label: "numerico"},
		{Name: "Cliente", Label: "categorico"},
	})
	if err := p.Validate(); err != nil {
		log.Printf("Error: %v", err)
		return
	}

	measures := generator.GenerateMeasures(p, p.TableName)
	for _, c := range generator.Categories(measures) {
		fmt.Printf("  %s: %d measures\n", c.Label(), len(generator.FilterByCategory(measures, c)))
	}

	insights := generator.SuggestKPIs(p, p.TableName)
	if err := generator.CheckReferences(insights, measures); err != nil {
		log.Printf("Error: %v", err)
		return
	}
	for _, in := range insights {
		fmt.Printf("  %s -> %s\n", in.Name, in.BaseExpression)
	}

	for _, c := range generator.RecommendCharts(p) {
		fmt.Printf("  %s %s\n", c.IconLabel, c.ChartType.Label())
	}
}

// extractionPayload decodes a model answer without calling the model
func extractionPayload() {
	answer := "```json\n" + `{
  "nombre_tabla": "Inventario",
  "columnas": [
    {"nombre": "Producto", "tipo": "categorico"},
    {"nombre": "Stock", "tipo": "numerico"},
    {"nombre": "Actualizado", "tipo": "fecha"}
  ]
}` + "\n```"

	payload, err := extract.Parse([]byte(answer))
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	result, err := daxgen.AnalyzeExtraction(payload, nil)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("%s: %d measures, %d insights, %d charts\n",
		result.Profile.TableName, len(result.Measures), len(result.Insights), len(result.Charts))
}

// customTypeMapping classifies extension types before analyzing a table
func customTypeMapping(connStr string) {
	ctx := context.Background()

	db, err := introspect.Open(ctx, connStr)
	if err != nil {
		log.Printf("Error opening connection: %v", err)
		return
	}
	defer db.Close()

	tables, err := introspect.Tables(ctx, db)
	if err != nil {
		log.Printf("Error listing tables: %v", err)
		return
	}
	if len(tables) == 0 {
		fmt.Println("No tables in schema public")
		return
	}
	fmt.Printf("Found %d tables: %s\n", len(tables), strings.Join(tables, ", "))

	p, err := introspect.Table(ctx, db, tables[0],
		introspect.WithTypeMappings(map[string]profile.Kind{
			"citext": profile.Categorical,
			"ltree":  profile.Categorical,
		}),
		introspect.WithNullCounts(),
	)
	if err != nil {
		log.Printf("Error introspecting: %v", err)
		return
	}

	result, err := daxgen.Analyze(p, nil)
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	printPreview("Generated from "+tables[0], generator.RenderMeasuresString(result.Measures))
}

// printPreview prints a preview of the generated measures
func printPreview(title, content string) {
	fmt.Printf("\n%s:\n", title)
	fmt.Println("---")
	if len(content) > 300 {
		fmt.Printf("%s...\n", content[:300])
	} else {
		fmt.Print(content)
	}
	fmt.Println("---")
}
