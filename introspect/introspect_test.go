package introspect

import (
	"context"
	"database/sql/driver"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lucasefe/daxgen/profile"
)

func TestNullCountQuery(t *testing.T) {
	columns := []profile.Column{
		{Name: "monto"},
		{Name: "Fecha Venta"},
		{Name: `mal"nombre`},
	}

	got := nullCountQuery("public", "ventas", columns)
	want := `SELECT COUNT(*) - COUNT("monto"), COUNT(*) - COUNT("Fecha Venta"), COUNT(*) - COUNT("mal""nombre") FROM "public"."ventas"`

	if got != want {
		t.Errorf("nullCountQuery() = %s, want %s", got, want)
	}
}

func TestFormatRelationship(t *testing.T) {
	got := formatRelationship("ventas", "cliente_id", "public", "clientes", "id")
	want := "ventas.cliente_id -> public.clientes.id"
	if got != want {
		t.Errorf("formatRelationship() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	o := defaultOptions()
	if o.schema != "public" {
		t.Errorf("default schema = %q, want %q", o.schema, "public")
	}

	for _, opt := range []Option{
		WithSchema("sales"),
		WithExcludeColumns("id", "created_at"),
		WithNullCounts(),
		WithDisplayName("Ventas"),
		WithTypeMappings(map[string]profile.Kind{"citext": profile.Categorical}),
	} {
		opt(o)
	}

	if o.schema != "sales" {
		t.Errorf("schema = %q, want %q", o.schema, "sales")
	}
	if len(o.excludeColumns) != 2 {
		t.Errorf("excludeColumns = %v, want 2 entries", o.excludeColumns)
	}
	if !o.nullCounts {
		t.Error("nullCounts = false, want true")
	}
	if o.displayName != "Ventas" {
		t.Errorf("displayName = %q, want %q", o.displayName, "Ventas")
	}
	if o.typeMapper == nil {
		t.Error("typeMapper = nil, want custom mapper")
	}
}

func salesFixture() *fixture {
	return &fixture{
		columns: [][]driver.Value{
			{"id", "integer", "int4"},
			{"fecha", "date", "date"},
			{"region", "character varying", "varchar"},
			{"monto", "numeric", "numeric"},
		},
		foreignKeys: [][]driver.Value{
			{"region", "public", "regiones", "nombre"},
			{"cliente_id", "public", "clientes", "id"},
			{"region", "public", "regiones", "nombre"},
		},
		nullCounts: []driver.Value{int64(0), int64(2), int64(5)},
	}
}

func TestTable(t *testing.T) {
	f := salesFixture()
	db := openFake(t, f)

	p, err := Table(context.Background(), db, "ventas",
		WithSchema("sales"),
		WithExcludeColumns("id"),
		WithNullCounts(),
		WithDisplayName("Ventas"),
	)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	if p.TableName != "Ventas" {
		t.Errorf("TableName = %q, want %q", p.TableName, "Ventas")
	}

	want := []profile.Column{
		{Name: "fecha", Kind: profile.Temporal, NullCount: 0},
		{Name: "region", Kind: profile.Categorical, NullCount: 2},
		{Name: "monto", Kind: profile.Numeric, NullCount: 5},
	}
	if !reflect.DeepEqual(p.Columns, want) {
		t.Errorf("Columns = %+v, want %+v", p.Columns, want)
	}

	wantRels := []string{
		"ventas.cliente_id -> public.clientes.id",
		"ventas.region -> public.regiones.nombre",
	}
	if !reflect.DeepEqual(p.Relationships, wantRels) {
		t.Errorf("Relationships = %v, want %v", p.Relationships, wantRels)
	}

	counts := f.ran("SELECT COUNT(*)")
	if len(counts) != 1 {
		t.Fatalf("null count queries = %d, want 1", len(counts))
	}
	if strings.Contains(counts[0], `"id"`) {
		t.Errorf("null count query includes excluded column: %s", counts[0])
	}
	if !strings.HasSuffix(counts[0], `FROM "sales"."ventas"`) {
		t.Errorf("null count query = %s, want schema-qualified table", counts[0])
	}

	for i, args := range f.args {
		if strings.Contains(f.queries[i], "COUNT(*)") {
			continue
		}
		if len(args) != 2 || args[0] != "sales" || args[1] != "ventas" {
			t.Errorf("query %d args = %v, want [sales ventas]", i, args)
		}
	}
}

func TestTableDefaults(t *testing.T) {
	f := salesFixture()
	f.foreignKeys = nil
	db := openFake(t, f)

	p, err := Table(context.Background(), db, "ventas")
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	if p.TableName != "ventas" {
		t.Errorf("TableName = %q, want %q", p.TableName, "ventas")
	}
	if len(p.Columns) != 4 {
		t.Errorf("Columns = %d, want 4", len(p.Columns))
	}
	if p.Columns[0].Kind != profile.Numeric {
		t.Errorf("id kind = %v, want numeric", p.Columns[0].Kind)
	}
	if p.Relationships != nil {
		t.Errorf("Relationships = %v, want none", p.Relationships)
	}
	if got := f.ran("SELECT COUNT(*)"); len(got) != 0 {
		t.Errorf("null counts ran without WithNullCounts: %v", got)
	}
	if f.args[0][0] != "public" {
		t.Errorf("schema = %v, want public", f.args[0][0])
	}
}

func TestTableCustomMappings(t *testing.T) {
	f := salesFixture()
	f.columns = [][]driver.Value{
		{"codigo", "USER-DEFINED", "money_cents"},
		{"etiquetas", "ARRAY", "_text"},
	}
	db := openFake(t, f)

	p, err := Table(context.Background(), db, "ventas",
		WithTypeMappings(map[string]profile.Kind{"money_cents": profile.Numeric}),
	)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	if p.Columns[0].Kind != profile.Numeric {
		t.Errorf("codigo kind = %v, want numeric", p.Columns[0].Kind)
	}
	if p.Columns[1].Kind != profile.Categorical {
		t.Errorf("etiquetas kind = %v, want categorical", p.Columns[1].Kind)
	}
}

func TestTableNotFound(t *testing.T) {
	f := salesFixture()
	f.columns = nil
	db := openFake(t, f)

	_, err := Table(context.Background(), db, "ausente")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("Table() error = %v, want ErrTableNotFound", err)
	}
	if !strings.Contains(err.Error(), "public.ausente") {
		t.Errorf("error %q does not name the table", err)
	}
}

func TestTableForeignKeyError(t *testing.T) {
	f := salesFixture()
	f.foreignErr = errors.New("permission denied")
	db := openFake(t, f)

	_, err := Table(context.Background(), db, "ventas")
	if err == nil || !strings.Contains(err.Error(), "failed to get foreign keys") {
		t.Fatalf("Table() error = %v, want foreign key failure", err)
	}
}

func TestTables(t *testing.T) {
	f := &fixture{tables: [][]driver.Value{{"clientes"}, {"ventas"}}}
	db := openFake(t, f)

	got, err := Tables(context.Background(), db, WithSchema("sales"))
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	if want := []string{"clientes", "ventas"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tables() = %v, want %v", got, want)
	}
	if f.args[0][0] != "sales" {
		t.Errorf("schema = %v, want sales", f.args[0][0])
	}
}
