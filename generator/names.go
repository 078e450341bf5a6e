package generator

import "fmt"

// Measure names are derived only through these helpers. The KPI advisor
// builds references with the same functions, so a renamed measure cannot
// silently break an insight formula.

// TotalName is the name of the sum measure of a numeric column.
func TotalName(column string) string { return "Total " + column }

// AverageName is the name of the average measure of a numeric column.
func AverageName(column string) string { return "Promedio " + column }

// MaxName is the name of the maximum measure of a numeric column.
func MaxName(column string) string { return "Max " + column }

// MinName is the name of the minimum measure of a numeric column.
func MinName(column string) string { return "Min " + column }

// RowCountName is the name of the table row count measure.
func RowCountName() string { return "Conteo Total" }

// DistinctCountName is the name of the distinct-value count of a categorical column.
func DistinctCountName(column string) string { return "Conteo Distinto " + column }

// YTDName is the name of the year-to-date accumulation of a numeric column.
func YTDName(column string) string { return column + " YTD" }

// PreviousMonthName is the name of the previous-month value of a numeric column.
func PreviousMonthName(column string) string { return column + " Mes Anterior" }

// VariationName is the name of the month-over-month percent variation.
func VariationName(column string) string { return "Variación % " + column }

// PriorYearName is the name of the same-period-prior-year value.
func PriorYearName(column string) string { return column + " Año Anterior" }

// TopName is the name of the top-N filtered aggregate over a categorical column.
func TopName(column string) string { return fmt.Sprintf("Top %d %s", topN, column) }

// ShareOfTotalName is the name of the percent-of-grand-total measure.
func ShareOfTotalName(column string) string { return "% del Total " + column }

// topN is the size of the ranking used by the advanced filtering measure.
const topN = 5

// columnRef renders a fully qualified column reference: Table[Column].
func columnRef(table, column string) string {
	return fmt.Sprintf("%s[%s]", table, column)
}

// measureRef renders a reference to a named measure: [Measure].
func measureRef(name string) string {
	return "[" + name + "]"
}

// safeDivide renders the divide-with-default idiom. Every ratio the
// generators emit goes through it so the zero fallback is always present.
func safeDivide(numerator, denominator string) string {
	return fmt.Sprintf("DIVIDE(%s, %s, 0)", numerator, denominator)
}

func sum(table, column string) string {
	return fmt.Sprintf("SUM(%s)", columnRef(table, column))
}
