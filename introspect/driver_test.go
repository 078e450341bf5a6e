package introspect

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

// fakeDriver serves canned information_schema results. Each DSN names a
// fixture registered with openFake.
type fakeDriver struct{}

type fixture struct {
	columns     [][]driver.Value
	foreignKeys [][]driver.Value
	nullCounts  []driver.Value
	tables      [][]driver.Value
	foreignErr  error

	mu      sync.Mutex
	queries []string
	args    [][]driver.Value
}

var (
	fixturesMu sync.Mutex
	fixtures   = make(map[string]*fixture)
)

func init() {
	sql.Register("introspect-fake", fakeDriver{})
}

func openFake(t *testing.T, f *fixture) *sql.DB {
	t.Helper()
	fixturesMu.Lock()
	fixtures[t.Name()] = f
	fixturesMu.Unlock()
	t.Cleanup(func() {
		fixturesMu.Lock()
		delete(fixtures, t.Name())
		fixturesMu.Unlock()
	})

	db, err := sql.Open("introspect-fake", t.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func (fakeDriver) Open(dsn string) (driver.Conn, error) {
	fixturesMu.Lock()
	defer fixturesMu.Unlock()
	f, ok := fixtures[dsn]
	if !ok {
		return nil, errors.New("unknown fixture " + dsn)
	}
	return &fakeConn{f: f}, nil
}

type fakeConn struct {
	f *fixture
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	c.f.mu.Lock()
	c.f.queries = append(c.f.queries, query)
	c.f.args = append(c.f.args, values)
	c.f.mu.Unlock()

	switch {
	case strings.Contains(query, "information_schema.columns"):
		return &fakeRows{columns: []string{"column_name", "data_type", "udt_name"}, data: c.f.columns}, nil
	case strings.Contains(query, "referential_constraints"):
		if c.f.foreignErr != nil {
			return nil, c.f.foreignErr
		}
		return &fakeRows{columns: []string{"column_name", "foreign_table_schema", "foreign_table_name", "foreign_column_name"}, data: c.f.foreignKeys}, nil
	case strings.Contains(query, "information_schema.tables"):
		return &fakeRows{columns: []string{"table_name"}, data: c.f.tables}, nil
	case strings.HasPrefix(query, "SELECT COUNT(*) - COUNT("):
		names := make([]string, len(c.f.nullCounts))
		for i := range names {
			names[i] = "count"
		}
		return &fakeRows{columns: names, data: [][]driver.Value{c.f.nullCounts}}, nil
	}
	return nil, errors.New("unexpected query: " + query)
}

type fakeRows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *fakeRows) Columns() []string { return r.columns }

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func (f *fixture) ran(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, q := range f.queries {
		if strings.HasPrefix(strings.TrimSpace(q), prefix) {
			out = append(out, q)
		}
	}
	return out
}
