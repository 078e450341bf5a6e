// Package generator derives suggested DAX measures, KPI/OKR insights and
// chart recommendations from a classified profile.
//
// Every function in this package is a pure function of its arguments: no I/O,
// no shared state, safe for concurrent use.
//
// Basic usage:
//
//	measures := generator.GenerateMeasures(p, "Ventas")
//	insights := generator.SuggestKPIs(p, "Ventas")
//	if err := generator.CheckReferences(insights, measures); err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(generator.RenderMeasures(measures))
package generator

import "github.com/lucasefe/daxgen/profile"

// Category groups measures by the kind of analysis they serve.
type Category string

const (
	BasicAggregation    Category = "basic_aggregation"
	Count               Category = "count"
	TimeIntelligence    Category = "time_intelligence"
	ComparativeAnalysis Category = "comparative_analysis"
	AdvancedFiltering   Category = "advanced_filtering"
)

var categoryLabels = map[Category]string{
	BasicAggregation:    "Agregación básica",
	Count:               "Conteo",
	TimeIntelligence:    "Inteligencia de tiempo",
	ComparativeAnalysis: "Análisis comparativo",
	AdvancedFiltering:   "Filtrado avanzado",
}

// Label returns the display label of the category. Unknown categories
// return their identifier.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory resolves either an identifier ("time_intelligence") or a
// display label ("Inteligencia de tiempo"). The second result is false for
// anything else.
func ParseCategory(s string) (Category, bool) {
	for c, label := range categoryLabels {
		if s == string(c) || s == label {
			return c, true
		}
	}
	return "", false
}

// Measure is a named DAX measure definition.
type Measure struct {
	Name string `json:"name"`
	// Expression is the full definition, "<Name> = <body>".
	Expression  string   `json:"expression"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// RuleSet selects which optional measures are generated.
type RuleSet int

const (
	// RuleSetExtended adds the prior-year and percent-of-total measures.
	RuleSetExtended RuleSet = iota
	// RuleSetMinimal emits only the mandatory rules.
	RuleSetMinimal
)

// String returns "extended" or "minimal".
func (r RuleSet) String() string {
	if r == RuleSetMinimal {
		return "minimal"
	}
	return "extended"
}

// ParseRuleSet parses "minimal" or "extended". The empty string selects the
// extended set.
func ParseRuleSet(s string) (RuleSet, bool) {
	switch s {
	case "", "extended":
		return RuleSetExtended, true
	case "minimal":
		return RuleSetMinimal, true
	default:
		return RuleSetExtended, false
	}
}

type options struct {
	ruleSet RuleSet
}

// Option configures measure and insight generation.
type Option func(*options)

// WithRuleSet selects the rule set. The default is RuleSetExtended.
func WithRuleSet(r RuleSet) Option {
	return func(o *options) {
		o.ruleSet = r
	}
}

func applyOptions(opts []Option) *options {
	o := &options{ruleSet: RuleSetExtended}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// resolveTable picks the explicit table label, falling back to the profile's.
func resolveTable(p *profile.Profile, table string) string {
	if table != "" {
		return table
	}
	return p.TableName
}

// firsts holds the first column of each kind. Presence is tracked apart from
// the name because "" is a valid column name.
type firsts struct {
	numeric     string
	categorical string
	temporal    string

	hasNumeric     bool
	hasCategorical bool
	hasTemporal    bool
}

func firstOfEach(numeric, categorical, temporal []string) firsts {
	var f firsts
	if len(numeric) > 0 {
		f.numeric, f.hasNumeric = numeric[0], true
	}
	if len(categorical) > 0 {
		f.categorical, f.hasCategorical = categorical[0], true
	}
	if len(temporal) > 0 {
		f.temporal, f.hasTemporal = temporal[0], true
	}
	return f
}
