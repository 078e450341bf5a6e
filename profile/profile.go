// Package profile defines the normalized description of a dataset that every
// generator in daxgen consumes, together with the classifier that builds it.
//
// A Profile is produced either from storage types (a CSV sample, a spreadsheet,
// a database catalog) or from an external extraction that already names the
// semantic kind of each column:
//
//	p := profile.FromStorageTypes("Ventas", []profile.StorageColumn{
//	    {Name: "Fecha", StorageType: "date"},
//	    {Name: "Region", StorageType: "varchar"},
//	    {Name: "Monto", StorageType: "numeric(12,2)"},
//	})
//	p.Numeric()     // ["Monto"]
//	p.Categorical() // ["Region"]
//	p.Temporal()    // ["Fecha"]
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind is the semantic type of a column. Every column has exactly one.
type Kind int

const (
	// Categorical covers text and any unrecognized storage type.
	Categorical Kind = iota
	// Numeric covers integer and floating-point storage types.
	Numeric
	// Temporal covers date and time storage types.
	Temporal
)

// String returns the lowercase English name of the kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Temporal:
		return "temporal"
	default:
		return "categorical"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels decode as
// Categorical.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = ClassifyLabel(string(text))
	return nil
}

// Column is a single classified column.
type Column struct {
	// Name is the column name as it appears in the source.
	Name string
	// Kind is the semantic type assigned by the classifier.
	Kind Kind
	// NullCount is the number of empty values seen, 0 when unknown.
	NullCount int
	// Description is free text supplied by an external extraction.
	Description string
}

// Profile is the classifier output: the ordered columns of one table plus the
// optional enrichment an external extraction can provide.
type Profile struct {
	// TableName is the label used inside generated expressions.
	TableName string
	// Columns keeps the source column order.
	Columns []Column
	// Relationships lists suggested relationships with other tables.
	Relationships []string
	// KeyMetrics lists metric names an extraction identified as important.
	KeyMetrics []string
}

// Names returns every column name in source order.
func (p *Profile) Names() []string {
	names := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		names = append(names, c.Name)
	}
	return names
}

// KindOf returns the kind of the named column. The second result is false if
// the profile has no such column.
func (p *Profile) KindOf(name string) (Kind, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return Categorical, false
}

// Numeric returns the numeric column names in source order.
func (p *Profile) Numeric() []string { return p.ofKind(Numeric) }

// Categorical returns the categorical column names in source order.
func (p *Profile) Categorical() []string { return p.ofKind(Categorical) }

// Temporal returns the temporal column names in source order.
func (p *Profile) Temporal() []string { return p.ofKind(Temporal) }

func (p *Profile) ofKind(kind Kind) []string {
	names := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// NullCounts maps every column name to its null count.
func (p *Profile) NullCounts() map[string]int {
	counts := make(map[string]int, len(p.Columns))
	for _, c := range p.Columns {
		counts[c.Name] = c.NullCount
	}
	return counts
}

// IsEmpty reports whether the profile has no columns at all.
func (p *Profile) IsEmpty() bool {
	return len(p.Columns) == 0
}

// Validate checks the preconditions the generators rely on. Column names must
// be unique; duplicates are reported as a *DuplicateColumnError.
func (p *Profile) Validate() error {
	seen := make(map[string]bool, len(p.Columns))
	var dups []string
	for _, c := range p.Columns {
		if seen[c.Name] {
			dups = append(dups, c.Name)
			continue
		}
		seen[c.Name] = true
	}
	if len(dups) > 0 {
		return &DuplicateColumnError{Columns: dups}
	}
	return nil
}

// ErrDuplicateColumn is matched by errors.Is for any *DuplicateColumnError.
var ErrDuplicateColumn = errors.New("duplicate column name")

// DuplicateColumnError lists the column names that appear more than once.
type DuplicateColumnError struct {
	Columns []string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column name(s): %s", strings.Join(e.Columns, ", "))
}

// Is reports ErrDuplicateColumn as a match.
func (e *DuplicateColumnError) Is(target error) bool {
	return target == ErrDuplicateColumn
}

type profileJSON struct {
	TableName          string            `json:"table_name"`
	Columns            []string          `json:"columns"`
	ColumnKind         map[string]Kind   `json:"column_kind"`
	NumericColumns     []string          `json:"numeric_columns"`
	CategoricalColumns []string          `json:"categorical_columns"`
	TemporalColumns    []string          `json:"temporal_columns"`
	NullCounts         map[string]int    `json:"null_counts"`
	Relationships      []string          `json:"suggested_relationships,omitempty"`
	KeyMetrics         []string          `json:"key_metrics,omitempty"`
	Descriptions       map[string]string `json:"descriptions,omitempty"`
}

// MarshalJSON renders the profile with its derived per-kind sequences.
func (p *Profile) MarshalJSON() ([]byte, error) {
	out := profileJSON{
		TableName:          p.TableName,
		Columns:            p.Names(),
		ColumnKind:         make(map[string]Kind, len(p.Columns)),
		NumericColumns:     p.Numeric(),
		CategoricalColumns: p.Categorical(),
		TemporalColumns:    p.Temporal(),
		NullCounts:         p.NullCounts(),
		Relationships:      p.Relationships,
		KeyMetrics:         p.KeyMetrics,
	}
	for _, c := range p.Columns {
		out.ColumnKind[c.Name] = c.Kind
		if c.Description != "" {
			if out.Descriptions == nil {
				out.Descriptions = make(map[string]string)
			}
			out.Descriptions[c.Name] = c.Description
		}
	}
	return json.Marshal(out)
}
