package generator

import (
	"testing"
)

func TestRenderMeasures(t *testing.T) {
	measures := []Measure{
		{Name: "Total Monto", Expression: "Total Monto = SUM(Datos[Monto])", Category: BasicAggregation, Description: "Suma total de Monto"},
		{Name: "Conteo Total", Expression: "Conteo Total = COUNTROWS(Datos)", Category: Count, Description: "Cuenta todas las filas"},
	}

	want := "// Total Monto\n// Suma total de Monto\nTotal Monto = SUM(Datos[Monto])\n" +
		"\n" +
		"// Conteo Total\n// Cuenta todas las filas\nConteo Total = COUNTROWS(Datos)\n"

	if got := RenderMeasuresString(measures); got != want {
		t.Errorf("RenderMeasuresString() = %q, want %q", got, want)
	}
}

func TestRenderMeasuresEmpty(t *testing.T) {
	if got := RenderMeasures(nil); len(got) != 0 {
		t.Errorf("RenderMeasures(nil) = %q, want empty", got)
	}
}

func TestCategories(t *testing.T) {
	measures := GenerateMeasures(salesProfile(), "Sales")

	want := []Category{BasicAggregation, Count, TimeIntelligence, ComparativeAnalysis, AdvancedFiltering}
	got := Categories(measures)

	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	measures := GenerateMeasures(salesProfile(), "Sales")

	tests := []struct {
		category Category
		want     int
	}{
		{"", 12},
		{BasicAggregation, 4},
		{Count, 2},
		{TimeIntelligence, 3},
		{ComparativeAnalysis, 2},
		{AdvancedFiltering, 1},
		{Category("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := FilterByCategory(measures, tt.category)
			if len(got) != tt.want {
				t.Errorf("FilterByCategory(%q) returned %d measures, want %d", tt.category, len(got), tt.want)
			}
		})
	}

	if len(measures) != 12 {
		t.Errorf("FilterByCategory modified its input, got %d measures", len(measures))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input  string
		want   Category
		wantOK bool
	}{
		{"time_intelligence", TimeIntelligence, true},
		{"Inteligencia de tiempo", TimeIntelligence, true},
		{"Conteo", Count, true},
		{"otra", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseCategory(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
