package generator

import (
	"fmt"

	"github.com/lucasefe/daxgen/profile"
)

// GenerateMeasures returns the measure catalog for a profile, in display
// order. table is the label used inside expressions; when empty the profile's
// TableName is used. An empty profile yields an empty, non-nil slice.
//
// Basic aggregations are emitted for every numeric column. Count, time
// intelligence, comparative and filtering measures only ever use the first
// column of each kind.
func GenerateMeasures(p *profile.Profile, table string, opts ...Option) []Measure {
	o := applyOptions(opts)
	t := resolveTable(p, table)

	numeric := p.Numeric()
	categorical := p.Categorical()
	first := firstOfEach(numeric, categorical, p.Temporal())

	measures := make([]Measure, 0)

	for _, col := range numeric {
		measures = append(measures, basicMeasures(t, col)...)
	}

	if first.hasCategorical {
		measures = append(measures, countMeasures(t, first.categorical)...)
	}

	if first.hasTemporal && first.hasNumeric {
		measures = append(measures, timeMeasures(t, first.numeric, first.temporal, o.ruleSet)...)
	}

	if first.hasNumeric && first.hasCategorical {
		measures = append(measures, filteringMeasures(t, first.numeric, first.categorical, o.ruleSet)...)
	}

	return measures
}

func newMeasure(name, body string, category Category, description string) Measure {
	return Measure{
		Name:        name,
		Expression:  fmt.Sprintf("%s = %s", name, body),
		Category:    category,
		Description: description,
	}
}

// newBlockMeasure is newMeasure for bodies that span several lines.
func newBlockMeasure(name, body string, category Category, description string) Measure {
	return Measure{
		Name:        name,
		Expression:  fmt.Sprintf("%s =\n%s", name, body),
		Category:    category,
		Description: description,
	}
}

func basicMeasures(t, col string) []Measure {
	ref := columnRef(t, col)
	return []Measure{
		newMeasure(TotalName(col), fmt.Sprintf("SUM(%s)", ref), BasicAggregation, "Suma total de "+col),
		newMeasure(AverageName(col), fmt.Sprintf("AVERAGE(%s)", ref), BasicAggregation, "Promedio de "+col),
		newMeasure(MaxName(col), fmt.Sprintf("MAX(%s)", ref), BasicAggregation, "Valor máximo de "+col),
		newMeasure(MinName(col), fmt.Sprintf("MIN(%s)", ref), BasicAggregation, "Valor mínimo de "+col),
	}
}

func countMeasures(t, cat string) []Measure {
	return []Measure{
		newMeasure(RowCountName(), fmt.Sprintf("COUNTROWS(%s)", t), Count, "Cuenta todas las filas"),
		newMeasure(DistinctCountName(cat), fmt.Sprintf("DISTINCTCOUNT(%s)", columnRef(t, cat)), Count, "Valores únicos de "+cat),
	}
}

func timeMeasures(t, num, date string, ruleSet RuleSet) []Measure {
	total := sum(t, num)
	dateRef := columnRef(t, date)
	previous := fmt.Sprintf("CALCULATE(%s, PREVIOUSMONTH(%s))", total, dateRef)

	variation := fmt.Sprintf("VAR Actual = %s\nVAR Anterior = %s\nRETURN %s",
		total, previous, safeDivide("Actual - Anterior", "Anterior"))

	measures := []Measure{
		newMeasure(YTDName(num), fmt.Sprintf("TOTALYTD(%s, %s)", total, dateRef), TimeIntelligence, "Acumulado del año hasta la fecha"),
		newMeasure(PreviousMonthName(num), previous, TimeIntelligence, "Valor del mes anterior"),
		newBlockMeasure(VariationName(num), variation, ComparativeAnalysis, "Cambio porcentual vs mes anterior"),
	}

	if ruleSet == RuleSetExtended {
		measures = append(measures, newMeasure(PriorYearName(num),
			fmt.Sprintf("CALCULATE(%s, SAMEPERIODLASTYEAR(%s))", total, dateRef),
			TimeIntelligence, "Mismo período año anterior"))
	}
	return measures
}

func filteringMeasures(t, num, cat string, ruleSet RuleSet) []Measure {
	total := sum(t, num)

	top := fmt.Sprintf("CALCULATE(\n    %s,\n    TOPN(%d, ALL(%s), %s)\n)", total, topN, columnRef(t, cat), total)
	measures := []Measure{
		newBlockMeasure(TopName(cat), top, AdvancedFiltering, fmt.Sprintf("Total de los %d principales %s", topN, cat)),
	}

	if ruleSet == RuleSetExtended {
		grandTotal := fmt.Sprintf("CALCULATE(%s, ALL(%s))", total, t)
		measures = append(measures, newMeasure(ShareOfTotalName(num),
			safeDivide(total, grandTotal), ComparativeAnalysis, "Porcentaje respecto al total"))
	}
	return measures
}
