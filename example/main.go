package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lucasefe/daxgen"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go <file.csv|file.xlsx> [table_name]")
		fmt.Println("Example: go run main.go ventas.csv Ventas")
		os.Exit(1)
	}

	path := os.Args[1]
	cfg := &daxgen.Config{}
	if len(os.Args) > 2 {
		cfg.TableName = os.Args[2]
	}

	fmt.Printf("Analyzing %s...\n", path)

	result, err := daxgen.AnalyzeFile(path, cfg)
	if err != nil {
		log.Fatalf("Failed to analyze file: %v", err)
	}

	p := result.Profile
	fmt.Printf("Table %s: %d numeric, %d categorical, %d temporal columns\n",
		p.TableName, len(p.Numeric()), len(p.Categorical()), len(p.Temporal()))

	outputFile := daxgen.ExportFileName(p.TableName)
	fmt.Printf("Writing %d measures to file: %s\n", len(result.Measures), outputFile)

	if err := daxgen.WriteMeasuresToFile(outputFile, result.Measures); err != nil {
		log.Fatalf("Failed to write measures: %v", err)
	}

	fmt.Println("\nKPI/OKR insights:")
	fmt.Println("-----------------")
	for _, in := range result.Insights {
		fmt.Printf("[%s] %s: %s\n", in.Category, in.Name, in.BaseExpression)
	}

	fmt.Println("\nSuggested charts:")
	fmt.Println("-----------------")
	for _, c := range result.Charts {
		fmt.Printf("%s %s\n", c.IconLabel, c.UsageDescription)
	}
}
