// Package introspect builds dataset profiles from PostgreSQL tables.
// It reads column types from information_schema, classifies them, and can
// optionally count NULL values and describe foreign keys as relationships.
//
// Basic usage:
//
//	p, err := introspect.Table(ctx, db, "ventas",
//	    introspect.WithSchema("sales"),
//	    introspect.WithExcludeColumns("id"),
//	    introspect.WithNullCounts(),
//	)
//
// With custom type mapping:
//
//	mapper := introspect.NewPostgreSQLTypeMapper(map[string]profile.Kind{
//	    "money_cents": profile.Numeric,
//	})
//	p, err := introspect.Table(ctx, db, "ventas", introspect.WithTypeMapper(mapper))
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/lucasefe/daxgen/profile"
)

// ErrTableNotFound is returned when the table has no visible columns.
var ErrTableNotFound = errors.New("table not found")

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used here.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Table introspects one PostgreSQL table and returns its profile.
// Use options to pick the schema, skip columns or count NULLs.
func Table(ctx context.Context, db Querier, table string, opts ...Option) (*profile.Profile, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	mapper := o.typeMapper
	if mapper == nil {
		mapper = NewPostgreSQLTypeMapper(nil)
	}

	columns, err := getColumns(ctx, db, o.schema, table, mapper)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s.%s: %w", o.schema, table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s.%s: %w", o.schema, table, ErrTableNotFound)
	}

	displayName := o.displayName
	if displayName == "" {
		displayName = table
	}

	result := &profile.Profile{
		TableName: displayName,
		Columns:   columns,
	}

	if len(o.excludeColumns) > 0 {
		result = profile.ExcludeColumns(result, o.excludeColumns)
	}

	if o.nullCounts && len(result.Columns) > 0 {
		if err := countNulls(ctx, db, o.schema, table, result.Columns); err != nil {
			return nil, fmt.Errorf("failed to count nulls for table %s.%s: %w", o.schema, table, err)
		}
	}

	relationships, err := getForeignKeys(ctx, db, o.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys for table %s.%s: %w", o.schema, table, err)
	}
	result.Relationships = relationships

	return result, nil
}

// Tables lists the base tables of the configured schema, sorted by name.
func Tables(ctx context.Context, db Querier, opts ...Option) ([]string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tables, err := getTables(ctx, db, o.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables for schema %s: %w", o.schema, err)
	}
	return tables, nil
}

// FromConnectionString connects to a PostgreSQL database and introspects a table.
// This is a convenience function that handles connection management.
func FromConnectionString(ctx context.Context, connStr, table string, opts ...Option) (*profile.Profile, error) {
	db, err := Open(ctx, connStr)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return Table(ctx, db, table, opts...)
}

// Open opens and pings a PostgreSQL connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func getTables(ctx context.Context, db Querier, schemaName string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

func getColumns(ctx context.Context, db Querier, schemaName, tableName string, mapper TypeMapper) ([]profile.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			COALESCE(c.udt_name, c.data_type) as udt_name
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []profile.Column
	for rows.Next() {
		var col profile.Column
		var dataType, udtName string

		if err := rows.Scan(&col.Name, &dataType, &udtName); err != nil {
			return nil, err
		}

		col.Kind = mapper.MapType(dataType, udtName)
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// nullCountQuery builds a single scan that counts NULLs for every column:
// SELECT COUNT(*) - COUNT("a"), COUNT(*) - COUNT("b") FROM "schema"."table".
func nullCountQuery(schemaName, tableName string, columns []profile.Column) string {
	exprs := make([]string, 0, len(columns))
	for _, col := range columns {
		exprs = append(exprs, fmt.Sprintf("COUNT(*) - COUNT(%s)", pq.QuoteIdentifier(col.Name)))
	}
	return fmt.Sprintf("SELECT %s FROM %s.%s",
		strings.Join(exprs, ", "),
		pq.QuoteIdentifier(schemaName),
		pq.QuoteIdentifier(tableName),
	)
}

func countNulls(ctx context.Context, db Querier, schemaName, tableName string, columns []profile.Column) error {
	counts := make([]int64, len(columns))
	dest := make([]any, len(columns))
	for i := range counts {
		dest[i] = &counts[i]
	}

	if err := db.QueryRowContext(ctx, nullCountQuery(schemaName, tableName, columns)).Scan(dest...); err != nil {
		return err
	}

	for i := range columns {
		columns[i].NullCount = int(counts[i])
	}
	return nil
}

// getForeignKeys describes each outgoing foreign key as
// "<table>.<column> -> <schema>.<table>.<column>".
func getForeignKeys(ctx context.Context, db Querier, schemaName, tableName string) ([]string, error) {
	query := `
		SELECT DISTINCT
			kcu1.column_name,
			kcu2.table_schema AS foreign_table_schema,
			kcu2.table_name AS foreign_table_name,
			kcu2.column_name AS foreign_column_name
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu1
			ON kcu1.constraint_name = rc.constraint_name
			AND kcu1.table_schema = rc.constraint_schema
		JOIN information_schema.key_column_usage kcu2
			ON kcu2.constraint_name = rc.unique_constraint_name
			AND kcu2.table_schema = rc.unique_constraint_schema
			AND kcu2.ordinal_position = kcu1.ordinal_position
		WHERE kcu1.table_schema = $1 AND kcu1.table_name = $2
	`

	rows, err := db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var fromColumn, toSchema, toTable, toColumn string
		if err := rows.Scan(&fromColumn, &toSchema, &toTable, &toColumn); err != nil {
			return nil, err
		}
		seen[formatRelationship(tableName, fromColumn, toSchema, toTable, toColumn)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var relationships []string
	for rel := range seen {
		relationships = append(relationships, rel)
	}
	sort.Strings(relationships)

	return relationships, nil
}

func formatRelationship(fromTable, fromColumn, toSchema, toTable, toColumn string) string {
	return fmt.Sprintf("%s.%s -> %s.%s.%s", fromTable, fromColumn, toSchema, toTable, toColumn)
}
