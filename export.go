package daxgen

import (
	"fmt"
	"os"

	"github.com/lucasefe/daxgen/generator"
)

// ExportFileName is the default name of the measure export for a table.
func ExportFileName(table string) string {
	if table == "" {
		table = DefaultTableName
	}
	return fmt.Sprintf("medidas_dax_%s.txt", table)
}

// WriteMeasuresToFile writes the plain-text measure export to filename.
func WriteMeasuresToFile(filename string, measures []generator.Measure) error {
	return os.WriteFile(filename, generator.RenderMeasures(measures), 0644)
}
