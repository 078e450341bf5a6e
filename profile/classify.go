package profile

import (
	"regexp"
	"strings"
)

// StorageColumn is a column described by its declared or inferred storage
// type, as produced by row-level inspection or a database catalog.
type StorageColumn struct {
	Name        string
	StorageType string
	NullCount   int
}

// LabeledColumn is a column whose semantic kind was already named by an
// external extraction.
type LabeledColumn struct {
	Name        string
	Label       string
	Description string
}

// DefaultStorageKinds maps well-known storage type names to their kind. Type
// names are looked up after lowercasing and removing any "(...)" or "[...]"
// modifier, so "varchar(255)" and "datetime64[ns]" resolve as "varchar" and
// "datetime64".
var DefaultStorageKinds = map[string]Kind{
	"date":                        Temporal,
	"datetime":                    Temporal,
	"datetime2":                   Temporal,
	"datetime64":                  Temporal,
	"smalldatetime":               Temporal,
	"time":                        Temporal,
	"timetz":                      Temporal,
	"timestamp":                   Temporal,
	"timestamptz":                 Temporal,
	"timestamp without time zone": Temporal,
	"timestamp with time zone":    Temporal,
	"time without time zone":      Temporal,
	"time with time zone":         Temporal,
	"fecha":                       Temporal,
	"integer":                     Numeric,
	"int":                         Numeric,
	"int2":                        Numeric,
	"int4":                        Numeric,
	"int8":                        Numeric,
	"int16":                       Numeric,
	"int32":                       Numeric,
	"int64":                       Numeric,
	"uint":                        Numeric,
	"uint32":                      Numeric,
	"uint64":                      Numeric,
	"tinyint":                     Numeric,
	"smallint":                    Numeric,
	"mediumint":                   Numeric,
	"bigint":                      Numeric,
	"serial":                      Numeric,
	"bigserial":                   Numeric,
	"float":                       Numeric,
	"float4":                      Numeric,
	"float8":                      Numeric,
	"float32":                     Numeric,
	"float64":                     Numeric,
	"double":                      Numeric,
	"double precision":            Numeric,
	"real":                        Numeric,
	"decimal":                     Numeric,
	"numeric":                     Numeric,
	"number":                      Numeric,
	"money":                       Numeric,
	"numerico":                    Numeric,
	"text":                        Categorical,
	"varchar":                     Categorical,
	"character varying":           Categorical,
	"char":                        Categorical,
	"character":                   Categorical,
	"string":                      Categorical,
	"boolean":                     Categorical,
	"bool":                        Categorical,
	"uuid":                        Categorical,
	"interval":                    Categorical,
	"categorico":                  Categorical,
}

var (
	modifierPattern = regexp.MustCompile(`\s*[\(\[].*[\)\]]\s*$`)

	// Date-shaped tags: 2024-01-31, 31/01/2024, 20240131.
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDatePattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	compactDatePattern = regexp.MustCompile(`^(\d{4})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])$`)

	numericLiteralPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

	temporalFragments = []string{"date", "time", "fecha"}
	numericPrefixes   = []string{"int", "uint", "float", "double", "decimal", "numeric", "number", "real", "money", "serial", "bigint", "smallint", "tinyint"}
)

// ClassifyStorageType maps a storage type string to a Kind. The temporal
// check runs before the numeric check, so a tag that is both date-shaped and
// all digits is Temporal. Anything unrecognized is Categorical.
func ClassifyStorageType(storageType string) Kind {
	raw := strings.ToLower(strings.TrimSpace(storageType))
	name := modifierPattern.ReplaceAllString(raw, "")

	if isTemporalType(raw, name) {
		return Temporal
	}
	if isNumericType(raw, name) {
		return Numeric
	}
	return Categorical
}

func isTemporalType(raw, name string) bool {
	if kind, ok := DefaultStorageKinds[name]; ok {
		return kind == Temporal
	}
	if isoDatePattern.MatchString(raw) || slashDatePattern.MatchString(raw) || compactDatePattern.MatchString(raw) {
		return true
	}
	for _, fragment := range temporalFragments {
		if strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

func isNumericType(raw, name string) bool {
	if kind, ok := DefaultStorageKinds[name]; ok {
		return kind == Numeric
	}
	for _, prefix := range numericPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return numericLiteralPattern.MatchString(raw)
}

// ClassifyLabel normalizes a semantic label supplied by an external
// extraction. "numeric" and "temporal" (any case) are recognized, as are the
// Spanish contract labels "numerico"/"numérico" and "fecha". Everything else,
// storage type names such as "date" included, is Categorical.
func ClassifyLabel(label string) Kind {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "numeric", "numerico", "numérico":
		return Numeric
	case "temporal", "fecha":
		return Temporal
	default:
		return Categorical
	}
}

// FromStorageTypes classifies columns described by storage types. An empty
// input yields an empty profile, not an error. Duplicate names are kept as
// they are; call Validate to reject them.
func FromStorageTypes(tableName string, columns []StorageColumn) *Profile {
	p := &Profile{
		TableName: tableName,
		Columns:   make([]Column, 0, len(columns)),
	}
	for _, col := range columns {
		nulls := col.NullCount
		if nulls < 0 {
			nulls = 0
		}
		p.Columns = append(p.Columns, Column{
			Name:      col.Name,
			Kind:      ClassifyStorageType(col.StorageType),
			NullCount: nulls,
		})
	}
	return p
}

// FromLabels classifies columns whose semantic label was supplied by an
// external extraction. Null counts are unknown and left at 0.
func FromLabels(tableName string, columns []LabeledColumn) *Profile {
	p := &Profile{
		TableName: tableName,
		Columns:   make([]Column, 0, len(columns)),
	}
	for _, col := range columns {
		p.Columns = append(p.Columns, Column{
			Name:        col.Name,
			Kind:        ClassifyLabel(col.Label),
			Description: col.Description,
		})
	}
	return p
}
