// Package tabular reads CSV and XLSX files into rows and infers a storage
// type per column from a small sample of values. The result feeds the
// storage-type classifier in package profile.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lucasefe/daxgen/profile"
)

// DefaultSampleSize is the number of non-empty values inspected per column.
const DefaultSampleSize = 5

// ErrNoHeader is returned when a file has no header row.
var ErrNoHeader = errors.New("no header row")

// Table is a header row plus data rows. Rows may be shorter than Headers;
// missing cells count as empty.
type Table struct {
	// Name is the sheet name for spreadsheets, empty for CSV.
	Name    string
	Headers []string
	Rows    [][]string
}

// Option configures reading.
type Option func(*options)

type options struct {
	delimiter rune
	sheet     string
}

// WithDelimiter forces the CSV field delimiter instead of detecting it.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.delimiter = r
	}
}

// WithSheet selects the spreadsheet sheet. Defaults to the first sheet.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ReadCSV reads a CSV document. The delimiter is detected from the header
// line among comma, semicolon and tab unless WithDelimiter is given.
func ReadCSV(r io.Reader, opts ...Option) (*Table, error) {
	o := applyOptions(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	delimiter := o.delimiter
	if delimiter == 0 {
		delimiter = detectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	table := &Table{Headers: trimAll(headers), Rows: make([][]string, 0)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// detectDelimiter picks whichever of , ; or TAB occurs most in the first line.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

// ReadXLSX reads one sheet of an XLSX workbook. The first row is the header.
func ReadXLSX(r io.Reader, opts ...Option) (*Table, error) {
	o := applyOptions(opts)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := o.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", sheet, ErrNoHeader)
	}

	return &Table{
		Name:    sheet,
		Headers: trimAll(rows[0]),
		Rows:    rows[1:],
	}, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// Cell returns the value at row i, column j, or "" when the row is short.
func (t *Table) Cell(i, j int) string {
	row := t.Rows[i]
	if j >= len(row) {
		return ""
	}
	return row[j]
}

// Preview returns up to n data rows, each padded to the header width.
func (t *Table) Preview(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}

	preview := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Headers))
		for j := range t.Headers {
			row[j] = t.Cell(i, j)
		}
		preview = append(preview, row)
	}
	return preview
}

// StorageColumns infers a storage type for every column from its first
// sampleSize non-empty values and counts empty values over all rows.
// A sampleSize of 0 or less uses DefaultSampleSize.
func (t *Table) StorageColumns(sampleSize int) []profile.StorageColumn {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	columns := make([]profile.StorageColumn, 0, len(t.Headers))
	for j, header := range t.Headers {
		var sample []string
		nulls := 0
		for i := range t.Rows {
			v := strings.TrimSpace(t.Cell(i, j))
			if isNull(v) {
				nulls++
				continue
			}
			if len(sample) < sampleSize {
				sample = append(sample, v)
			}
		}
		columns = append(columns, profile.StorageColumn{
			Name:        header,
			StorageType: InferStorageType(sample),
			NullCount:   nulls,
		})
	}
	return columns
}

// Profile classifies the table's columns.
func (t *Table) Profile(tableName string, sampleSize int) *profile.Profile {
	return profile.FromStorageTypes(tableName, t.StorageColumns(sampleSize))
}
