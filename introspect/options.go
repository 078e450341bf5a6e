package introspect

import "github.com/lucasefe/daxgen/profile"

// Option configures introspection behavior.
type Option func(*options)

type options struct {
	schema         string
	excludeColumns []string
	typeMapper     TypeMapper
	nullCounts     bool
	displayName    string
}

func defaultOptions() *options {
	return &options{
		schema: "public",
	}
}

// WithSchema specifies which database schema holds the table.
// If not specified, defaults to "public".
func WithSchema(schema string) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithExcludeColumns specifies columns to leave out of the profile.
func WithExcludeColumns(columns ...string) Option {
	return func(o *options) {
		o.excludeColumns = columns
	}
}

// WithTypeMapper sets a custom type mapper for classifying column types.
// If not specified, uses the default PostgreSQL type mapper.
func WithTypeMapper(mapper TypeMapper) Option {
	return func(o *options) {
		o.typeMapper = mapper
	}
}

// WithTypeMappings provides custom type mappings as a simple map.
// This is a convenience alternative to WithTypeMapper for simple use cases.
// Keys are PostgreSQL type names (case-insensitive).
func WithTypeMappings(mappings map[string]profile.Kind) Option {
	return func(o *options) {
		o.typeMapper = NewPostgreSQLTypeMapper(mappings)
	}
}

// WithNullCounts counts NULL values per column. This scans the whole table
// once.
func WithNullCounts() Option {
	return func(o *options) {
		o.nullCounts = true
	}
}

// WithDisplayName sets the table label used inside generated expressions.
// Defaults to the database table name.
func WithDisplayName(name string) Option {
	return func(o *options) {
		o.displayName = name
	}
}
