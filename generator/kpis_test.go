package generator

import (
	"errors"
	"testing"

	"github.com/lucasefe/daxgen/profile"
)

func TestSuggestKPIs(t *testing.T) {
	p := &profile.Profile{
		TableName: "Sales",
		Columns: []profile.Column{
			{Name: "Date", Kind: profile.Temporal},
			{Name: "Region", Kind: profile.Categorical},
			{Name: "Revenue", Kind: profile.Numeric},
			{Name: "Cost", Kind: profile.Numeric},
		},
	}

	insights := SuggestKPIs(p, "Sales")

	expected := []struct {
		expression string
		category   InsightCategory
		viz        string
	}{
		{"SUM(Sales[Revenue])", KPI, "Tarjeta / Medidor"},
		{"DIVIDE([Total Revenue] - [Revenue Mes Anterior], [Revenue Mes Anterior], 0)", KPI, "Flechas condicionales / Gráfico de área"},
		{"DIVIDE(SUM(Sales[Revenue]), SUM(Sales[Cost]), 0)", KPI, "Gráfico de dispersión"},
		{"DIVIDE([Top 5 Region], CALCULATE(SUM(Sales[Revenue]), ALL(Sales)), 0)", OKR, "Gráfico de barras de Pareto"},
	}

	if len(insights) != len(expected) {
		t.Fatalf("SuggestKPIs() returned %d insights, want %d", len(insights), len(expected))
	}

	for i, want := range expected {
		got := insights[i]
		if got.BaseExpression != want.expression {
			t.Errorf("insights[%d].BaseExpression = %q, want %q", i, got.BaseExpression, want.expression)
		}
		if got.Category != want.category {
			t.Errorf("insights[%d].Category = %v, want %v", i, got.Category, want.category)
		}
		if got.RecommendedVisualization != want.viz {
			t.Errorf("insights[%d].RecommendedVisualization = %q, want %q", i, got.RecommendedVisualization, want.viz)
		}
		if got.Name == "" || got.Objective == "" {
			t.Errorf("insights[%d] has empty name or objective", i)
		}
	}
}

func TestSuggestKPIsRulesFireIndependently(t *testing.T) {
	tests := []struct {
		name    string
		columns []profile.Column
		want    int
	}{
		{"empty", nil, 0},
		{"categorical only", []profile.Column{{Name: "Region", Kind: profile.Categorical}}, 0},
		{"one numeric", []profile.Column{{Name: "Monto", Kind: profile.Numeric}}, 1},
		{"numeric and temporal", []profile.Column{
			{Name: "Monto", Kind: profile.Numeric},
			{Name: "Fecha", Kind: profile.Temporal},
		}, 2},
		{"two numeric", []profile.Column{
			{Name: "Monto", Kind: profile.Numeric},
			{Name: "Costo", Kind: profile.Numeric},
		}, 2},
		{"numeric and categorical", []profile.Column{
			{Name: "Monto", Kind: profile.Numeric},
			{Name: "Region", Kind: profile.Categorical},
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestKPIs(&profile.Profile{TableName: "Datos", Columns: tt.columns}, "")
			if got == nil {
				t.Fatal("SuggestKPIs() returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Errorf("SuggestKPIs() returned %d insights, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCheckReferences(t *testing.T) {
	p := &profile.Profile{
		TableName: "Sales",
		Columns: []profile.Column{
			{Name: "Date", Kind: profile.Temporal},
			{Name: "Region", Kind: profile.Categorical},
			{Name: "Revenue", Kind: profile.Numeric},
		},
	}

	insights := SuggestKPIs(p, "Sales")

	for _, ruleSet := range []RuleSet{RuleSetMinimal, RuleSetExtended} {
		measures := GenerateMeasures(p, "Sales", WithRuleSet(ruleSet))
		if err := CheckReferences(insights, measures); err != nil {
			t.Errorf("CheckReferences() with %v rule set returned error: %v", ruleSet, err)
		}
	}
}

func TestCheckReferencesMissing(t *testing.T) {
	p := &profile.Profile{
		TableName: "Sales",
		Columns: []profile.Column{
			{Name: "Date", Kind: profile.Temporal},
			{Name: "Revenue", Kind: profile.Numeric},
		},
	}

	insights := SuggestKPIs(p, "Sales")
	measures := FilterByCategory(GenerateMeasures(p, "Sales"), BasicAggregation)

	err := CheckReferences(insights, measures)
	if err == nil {
		t.Fatal("CheckReferences() returned nil, want error")
	}

	var missing *MissingMeasureError
	if !errors.As(err, &missing) {
		t.Fatalf("CheckReferences() error = %T, want *MissingMeasureError", err)
	}
	if len(missing.Measures) != 1 || missing.Measures[0] != PreviousMonthName("Revenue") {
		t.Errorf("missing.Measures = %v, want [%s]", missing.Measures, PreviousMonthName("Revenue"))
	}
}

func TestSuggestKPIsEmptyColumnName(t *testing.T) {
	p := profile.FromStorageTypes("T", []profile.StorageColumn{
		{Name: "", StorageType: "text"},
		{Name: "Monto", StorageType: "integer"},
	})

	insights := SuggestKPIs(p, "T")
	if len(insights) != 2 {
		t.Fatalf("SuggestKPIs() returned %d insights, want 2", len(insights))
	}
	if insights[1].Category != OKR {
		t.Errorf("SuggestKPIs()[1].Category = %v, want %v", insights[1].Category, OKR)
	}
	if err := CheckReferences(insights, GenerateMeasures(p, "T")); err != nil {
		t.Errorf("CheckReferences() = %v, want nil", err)
	}
}
