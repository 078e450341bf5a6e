package profile

// ExcludeColumns removes columns whose name matches the exclude list.
// It returns a new Profile with the remaining columns; the original is not modified.
func ExcludeColumns(p *Profile, excludeColumns []string) *Profile {
	excludeMap := make(map[string]bool)
	for _, name := range excludeColumns {
		excludeMap[name] = true
	}

	filteredColumns := make([]Column, 0)
	for _, column := range p.Columns {
		if !excludeMap[column.Name] {
			filteredColumns = append(filteredColumns, column)
		}
	}

	return &Profile{
		TableName:     p.TableName,
		Columns:       filteredColumns,
		Relationships: p.Relationships,
		KeyMetrics:    p.KeyMetrics,
	}
}
