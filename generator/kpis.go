package generator

import (
	"fmt"
	"strings"

	"github.com/lucasefe/daxgen/profile"
)

// InsightCategory distinguishes operational KPIs from strategic OKRs.
type InsightCategory string

const (
	KPI InsightCategory = "KPI"
	OKR InsightCategory = "OKR"
)

// Insight is a KPI or OKR recommendation.
type Insight struct {
	Name      string `json:"name"`
	Objective string `json:"objective"`
	// BaseExpression is a raw aggregate or ratio, not a registered measure.
	BaseExpression           string          `json:"base_expression"`
	Category                 InsightCategory `json:"category"`
	RecommendedVisualization string          `json:"recommended_visualization"`
	// References lists the catalog measures BaseExpression depends on.
	References []string `json:"references"`
}

// SuggestKPIs returns the KPI/OKR insights that apply to a profile. Rules are
// independent; every rule whose preconditions hold fires. An empty profile
// yields an empty, non-nil slice.
//
// Insights that reference measures do so through the naming helpers, so they
// match what GenerateMeasures produces for the same profile.
func SuggestKPIs(p *profile.Profile, table string) []Insight {
	t := resolveTable(p, table)

	numeric := p.Numeric()
	categorical := p.Categorical()
	first := firstOfEach(numeric, categorical, p.Temporal())

	insights := make([]Insight, 0)

	if !first.hasNumeric {
		return insights
	}
	num := first.numeric

	insights = append(insights, Insight{
		Name:                     "Volumen de " + num,
		Objective:                fmt.Sprintf("Monitorear el volumen total de %s", num),
		BaseExpression:           sum(t, num),
		Category:                 KPI,
		RecommendedVisualization: "Tarjeta / Medidor",
		References:               []string{},
	})

	if first.hasTemporal {
		current := TotalName(num)
		previous := PreviousMonthName(num)
		insights = append(insights, Insight{
			Name:      "Crecimiento mensual de " + num,
			Objective: fmt.Sprintf("Medir el crecimiento de %s respecto al mes anterior", num),
			BaseExpression: safeDivide(
				fmt.Sprintf("%s - %s", measureRef(current), measureRef(previous)),
				measureRef(previous),
			),
			Category:                 KPI,
			RecommendedVisualization: "Flechas condicionales / Gráfico de área",
			References:               []string{current, previous},
		})
	}

	if len(numeric) >= 2 {
		second := numeric[1]
		insights = append(insights, Insight{
			Name:                     fmt.Sprintf("Ratio de eficiencia %s / %s", num, second),
			Objective:                fmt.Sprintf("Evaluar la relación entre %s y %s", num, second),
			BaseExpression:           safeDivide(sum(t, num), sum(t, second)),
			Category:                 KPI,
			RecommendedVisualization: "Gráfico de dispersión",
			References:               []string{},
		})
	}

	if first.hasCategorical {
		top := TopName(first.categorical)
		grandTotal := fmt.Sprintf("CALCULATE(%s, ALL(%s))", sum(t, num), t)
		insights = append(insights, Insight{
			Name:                     fmt.Sprintf("Concentración en %s", top),
			Objective:                fmt.Sprintf("Enfocar la estrategia en los %d principales %s por %s", topN, first.categorical, num),
			BaseExpression:           safeDivide(measureRef(top), grandTotal),
			Category:                 OKR,
			RecommendedVisualization: "Gráfico de barras de Pareto",
			References:               []string{top},
		})
	}

	return insights
}

// MissingMeasureError reports an insight that references measures absent
// from the catalog it was checked against.
type MissingMeasureError struct {
	Insight  string
	Measures []string
}

func (e *MissingMeasureError) Error() string {
	return fmt.Sprintf("insight %q references missing measure(s): %s", e.Insight, strings.Join(e.Measures, ", "))
}

// CheckReferences verifies that every measure an insight references exists
// in measures. It returns a *MissingMeasureError for the first insight with
// unresolved references.
func CheckReferences(insights []Insight, measures []Measure) error {
	names := make(map[string]bool, len(measures))
	for _, m := range measures {
		names[m.Name] = true
	}

	for _, in := range insights {
		var missing []string
		for _, ref := range in.References {
			if !names[ref] {
				missing = append(missing, ref)
			}
		}
		if len(missing) > 0 {
			return &MissingMeasureError{Insight: in.Name, Measures: missing}
		}
	}
	return nil
}
