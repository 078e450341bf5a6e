package generator

import "strings"

// RenderMeasures renders the downloadable text form of a catalog. Each
// measure becomes a block of two comment lines (name, description) followed
// by its expression; blocks are separated by one blank line.
func RenderMeasures(measures []Measure) []byte {
	var builder strings.Builder

	for i, m := range measures {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("// " + m.Name + "\n")
		builder.WriteString("// " + m.Description + "\n")
		builder.WriteString(m.Expression + "\n")
	}

	return []byte(builder.String())
}

// RenderMeasuresString is a convenience wrapper that returns the export as a string.
func RenderMeasuresString(measures []Measure) string {
	return string(RenderMeasures(measures))
}
