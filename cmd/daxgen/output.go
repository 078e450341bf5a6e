package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/generator"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgCyan, color.Bold)
	nameColor    = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, strings.ToUpper(title))
}

// printResult renders a Result for the terminal: the profile, the measures
// grouped by category, the insights and the chart suggestions.
func printResult(w io.Writer, r *daxgen.Result) {
	p := r.Profile

	headerColor.Fprintf(w, "Tabla: %s\n", p.TableName)
	fmt.Fprintf(w, "  Numéricas:   %s\n", joinOrDash(p.Numeric()))
	fmt.Fprintf(w, "  Categóricas: %s\n", joinOrDash(p.Categorical()))
	fmt.Fprintf(w, "  Temporales:  %s\n", joinOrDash(p.Temporal()))
	if len(p.Relationships) > 0 {
		fmt.Fprintf(w, "  Relaciones:  %s\n", strings.Join(p.Relationships, "; "))
	}

	printHeader(w, fmt.Sprintf("Medidas DAX (%d)", len(r.Measures)))
	var current generator.Category
	for _, m := range r.Measures {
		if m.Category != current {
			current = m.Category
			fmt.Fprintln(w)
			nameColor.Fprintf(w, "%s\n", current.Label())
		}
		dimColor.Fprintf(w, "// %s\n", m.Description)
		fmt.Fprintln(w, m.Expression)
	}

	if len(r.Insights) > 0 {
		printHeader(w, "KPIs y OKRs")
		for _, in := range r.Insights {
			nameColor.Fprintf(w, "[%s] %s\n", in.Category, in.Name)
			fmt.Fprintf(w, "  Objetivo:      %s\n", in.Objective)
			fmt.Fprintf(w, "  Expresión:     %s\n", in.BaseExpression)
			fmt.Fprintf(w, "  Visualización: %s\n", in.RecommendedVisualization)
		}
	}

	if len(r.Charts) > 0 {
		printHeader(w, "Visualizaciones sugeridas")
		for _, c := range r.Charts {
			fmt.Fprintf(w, "%s %s: %s", c.IconLabel, c.ChartType.Label(), c.UsageDescription)
			if len(c.ReferencedColumns) > 0 {
				dimColor.Fprintf(w, " (%s)", strings.Join(c.ReferencedColumns, ", "))
			}
			fmt.Fprintln(w)
		}
	}
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
