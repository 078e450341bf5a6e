package introspect

import (
	"strings"

	"github.com/lucasefe/daxgen/profile"
)

// TypeMapper defines the interface for converting database column types to
// semantic kinds. Implement this interface to customize classification.
type TypeMapper interface {
	// MapType classifies a column.
	// dataType is the information_schema data type (e.g., "integer", "USER-DEFINED")
	// udtName is the underlying type name, used for custom and array types
	MapType(dataType, udtName string) profile.Kind
}

// PostgreSQLTypeMapper classifies PostgreSQL column types.
// It supports overrides via the CustomMappings field.
type PostgreSQLTypeMapper struct {
	// CustomMappings allows overriding default classification.
	// Keys are PostgreSQL type names (case-insensitive).
	CustomMappings map[string]profile.Kind
}

// NewPostgreSQLTypeMapper creates a new TypeMapper with optional custom mappings.
// If customMappings is nil, only default mappings are used.
//
// Example:
//
//	mapper := introspect.NewPostgreSQLTypeMapper(map[string]profile.Kind{
//	    "money_cents": profile.Numeric,
//	    "tstzrange":   profile.Temporal,
//	})
func NewPostgreSQLTypeMapper(customMappings map[string]profile.Kind) *PostgreSQLTypeMapper {
	return &PostgreSQLTypeMapper{CustomMappings: customMappings}
}

// MapType implements TypeMapper for PostgreSQL databases.
// It checks CustomMappings first, then falls back to default mappings.
func (m *PostgreSQLTypeMapper) MapType(dataType, udtName string) profile.Kind {
	if m.CustomMappings != nil {
		if kind, ok := m.CustomMappings[strings.ToLower(dataType)]; ok {
			return kind
		}
		// Also check the UDT name for custom types
		if kind, ok := m.CustomMappings[strings.ToLower(udtName)]; ok {
			return kind
		}
	}
	return MapPostgreSQLType(dataType, udtName)
}

// DefaultTypeMappings holds PostgreSQL types whose kind differs from what the
// generic storage type classifier would infer.
var DefaultTypeMappings = map[string]profile.Kind{
	"bytea":    profile.Categorical,
	"json":     profile.Categorical,
	"jsonb":    profile.Categorical,
	"xml":      profile.Categorical,
	"inet":     profile.Categorical,
	"cidr":     profile.Categorical,
	"oid":      profile.Categorical,
	"point":    profile.Categorical,
	"tsvector": profile.Categorical,
}

// MapPostgreSQLType classifies a PostgreSQL data type.
// Array columns are categorical. User-defined types are classified by their
// UDT name, so domains over numeric types stay numeric and enums fall back to
// categorical.
func MapPostgreSQLType(dataType, udtName string) profile.Kind {
	name := strings.ToLower(dataType)
	if kind, ok := DefaultTypeMappings[name]; ok {
		return kind
	}

	switch name {
	case "array":
		return profile.Categorical
	case "user-defined":
		return NormalizeCustomType(udtName)
	default:
		return profile.ClassifyStorageType(dataType)
	}
}

// NormalizeCustomType classifies a PostgreSQL custom type name. Array type
// names ("_int4") are categorical.
func NormalizeCustomType(typeName string) profile.Kind {
	if strings.HasPrefix(typeName, "_") {
		return profile.Categorical
	}
	if kind, ok := DefaultTypeMappings[strings.ToLower(typeName)]; ok {
		return kind
	}
	return profile.ClassifyStorageType(typeName)
}
