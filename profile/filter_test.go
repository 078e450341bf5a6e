package profile

import "testing"

func TestExcludeColumns(t *testing.T) {
	p := &Profile{
		TableName: "Ventas",
		Columns: []Column{
			{Name: "id", Kind: Numeric},
			{Name: "Monto", Kind: Numeric},
			{Name: "Region", Kind: Categorical},
			{Name: "_loaded_at", Kind: Temporal},
		},
	}

	excludeColumns := []string{"id", "_loaded_at"}
	filtered := ExcludeColumns(p, excludeColumns)

	if len(filtered.Columns) != 2 {
		t.Errorf("Expected 2 columns after filtering, got %d", len(filtered.Columns))
	}

	expectedColumns := map[string]bool{"Monto": true, "Region": true}
	for _, column := range filtered.Columns {
		if !expectedColumns[column.Name] {
			t.Errorf("Unexpected column in filtered result: %s", column.Name)
		}
	}

	if filtered.TableName != "Ventas" {
		t.Errorf("TableName = %q, want %q", filtered.TableName, "Ventas")
	}
}

func TestExcludeColumnsEmpty(t *testing.T) {
	p := &Profile{
		Columns: []Column{
			{Name: "Monto", Kind: Numeric},
		},
	}

	// Filter with empty exclude list
	filtered := ExcludeColumns(p, []string{})

	if len(filtered.Columns) != 1 {
		t.Errorf("Expected 1 column when exclude list is empty, got %d", len(filtered.Columns))
	}
}

func TestExcludeColumnsOriginalUnmodified(t *testing.T) {
	p := &Profile{
		Columns: []Column{
			{Name: "Monto", Kind: Numeric},
			{Name: "id", Kind: Numeric},
		},
	}

	ExcludeColumns(p, []string{"id"})

	// Original should still have 2 columns
	if len(p.Columns) != 2 {
		t.Errorf("Original profile was modified, expected 2 columns, got %d", len(p.Columns))
	}
}
