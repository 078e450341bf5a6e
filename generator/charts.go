package generator

import (
	"fmt"

	"github.com/lucasefe/daxgen/profile"
)

// ChartType is a visualization archetype.
type ChartType string

const (
	Scatter   ChartType = "scatter"
	Bar       ChartType = "bar"
	Matrix    ChartType = "matrix"
	Line      ChartType = "line"
	Area      ChartType = "area"
	Waterfall ChartType = "waterfall"
	Funnel    ChartType = "funnel"
	KPICard   ChartType = "kpi_card"
	Gauge     ChartType = "gauge"
)

var chartLabels = map[ChartType]string{
	Scatter:   "Gráfico de Dispersión",
	Bar:       "Gráfico de Barras/Columnas",
	Matrix:    "Matriz/Tabla",
	Line:      "Gráfico de Líneas",
	Area:      "Gráfico de Área",
	Waterfall: "Gráfico de Cascada",
	Funnel:    "Gráfico de Embudo",
	KPICard:   "Tarjeta/KPI",
	Gauge:     "Medidor",
}

var chartIcons = map[ChartType]string{
	Scatter:   "📊",
	Bar:       "📊",
	Matrix:    "📋",
	Line:      "📈",
	Area:      "📉",
	Waterfall: "🌊",
	Funnel:    "🔻",
	KPICard:   "🎯",
	Gauge:     "⏱️",
}

// Label returns the display name of the chart type.
func (c ChartType) Label() string {
	if label, ok := chartLabels[c]; ok {
		return label
	}
	return string(c)
}

// ChartSuggestion maps a subset of columns to a chart archetype.
type ChartSuggestion struct {
	ChartType         ChartType `json:"chart_type"`
	UsageDescription  string    `json:"usage_description"`
	ReferencedColumns []string  `json:"referenced_columns"`
	IconLabel         string    `json:"icon_label"`
}

func newChart(chartType ChartType, usage string, columns ...string) ChartSuggestion {
	return ChartSuggestion{
		ChartType:         chartType,
		UsageDescription:  usage,
		ReferencedColumns: columns,
		IconLabel:         chartIcons[chartType],
	}
}

// RecommendCharts returns chart suggestions for a profile. Rules are
// additive and the result is their flat concatenation in a fixed order: the
// KPI card and gauge always come last. An empty profile yields an empty,
// non-nil slice.
func RecommendCharts(p *profile.Profile) []ChartSuggestion {
	numeric := p.Numeric()
	categorical := p.Categorical()
	first := firstOfEach(numeric, categorical, p.Temporal())

	charts := make([]ChartSuggestion, 0)

	if len(numeric) >= 2 {
		charts = append(charts, newChart(Scatter,
			fmt.Sprintf("Analizar correlación entre %s y %s", numeric[0], numeric[1]),
			numeric[0], numeric[1]))
	}

	if first.hasCategorical && first.hasNumeric {
		charts = append(charts, newChart(Bar,
			fmt.Sprintf("Comparar %s por %s", first.numeric, first.categorical),
			first.categorical, first.numeric))

		if len(categorical) >= 2 {
			charts = append(charts, newChart(Matrix,
				fmt.Sprintf("Vista detallada cruzando %s y %s", categorical[0], categorical[1]),
				categorical[0], categorical[1], first.numeric))
		}
	}

	if first.hasTemporal && first.hasNumeric {
		charts = append(charts,
			newChart(Line, fmt.Sprintf("Tendencia temporal de %s", first.numeric), first.temporal, first.numeric),
			newChart(Area, "Análisis acumulado en el tiempo", first.temporal, first.numeric),
		)
	}

	if first.hasCategorical && first.hasNumeric {
		charts = append(charts,
			newChart(Waterfall, fmt.Sprintf("Mostrar la contribución incremental de cada %s a %s", first.categorical, first.numeric),
				first.categorical, first.numeric),
			newChart(Funnel, fmt.Sprintf("Seguir la conversión de %s a lo largo de las etapas de %s", first.numeric, first.categorical),
				first.categorical, first.numeric),
		)
	}

	if first.hasNumeric {
		charts = append(charts,
			newChart(KPICard, fmt.Sprintf("Mostrar la métrica principal %s", first.numeric), first.numeric),
			newChart(Gauge, fmt.Sprintf("Comparar %s contra una meta", first.numeric), first.numeric),
		)
	}

	return charts
}
