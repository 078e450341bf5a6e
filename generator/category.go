package generator

// Categories returns the distinct categories present in measures, in order
// of first appearance.
func Categories(measures []Measure) []Category {
	seen := make(map[Category]bool)
	categories := make([]Category, 0)
	for _, m := range measures {
		if !seen[m.Category] {
			seen[m.Category] = true
			categories = append(categories, m.Category)
		}
	}
	return categories
}

// FilterByCategory returns the measures of the given category, keeping their
// order. An empty category returns every measure. The input is not modified.
func FilterByCategory(measures []Measure, category Category) []Measure {
	filtered := make([]Measure, 0, len(measures))
	for _, m := range measures {
		if category == "" || m.Category == category {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
