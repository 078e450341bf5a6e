// Package extract turns textual or visual descriptions of a table into a
// dataset profile. A vision or text model is asked to answer with a fixed
// JSON contract; Parse decodes that contract and Payload.Profile classifies
// it.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/lucasefe/daxgen/profile"
)

var (
	// ErrMalformedPayload is returned when a model answer is not a valid
	// extraction payload.
	ErrMalformedPayload = errors.New("malformed extraction payload")
	// ErrNoContent is returned when a model answer has no content at all.
	ErrNoContent = errors.New("empty model response")
)

// Column is one extracted column. Type is a free semantic label such as
// "numerico", "categorico" or "fecha".
type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Payload is a decoded extraction.
type Payload struct {
	TableName     string     `json:"table_name"`
	Columns       []Column   `json:"columns"`
	Relationships []string   `json:"relationships,omitempty"`
	KeyMetrics    []string   `json:"key_metrics,omitempty"`
	SampleRows    [][]string `json:"sample_rows,omitempty"`
}

// Models answer with either the Spanish keys of the prompt or English keys.
type wireColumn struct {
	Name        string `json:"name"`
	Nombre      string `json:"nombre"`
	Type        string `json:"type"`
	Tipo        string `json:"tipo"`
	Description string `json:"description"`
	Descripcion string `json:"descripcion"`
}

// The enrichment fields are kept raw and read leniently: a model that gets
// their shape wrong must not cost the columns.
type wirePayload struct {
	TableName          string          `json:"table_name"`
	NombreTabla        string          `json:"nombre_tabla"`
	Columns            []wireColumn    `json:"columns"`
	Columnas           []wireColumn    `json:"columnas"`
	Relationships      json.RawMessage `json:"relationships"`
	RelacionesPosibles json.RawMessage `json:"relaciones_posibles"`
	KeyMetrics         json.RawMessage `json:"key_metrics"`
	MetricasClave      json.RawMessage `json:"metricas_clave"`
	SampleRows         json.RawMessage `json:"sample_rows"`
	DatosEjemplo       json.RawMessage `json:"datos_ejemplo"`
}

var fencePattern = regexp.MustCompile("```(?:json)?\\n?")

// StripFences removes Markdown code fences around a model answer.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}

// Parse decodes a model answer. Code fences are stripped first. Any decoding
// failure wraps ErrMalformedPayload. Columns without a name are dropped.
func Parse(data []byte) (*Payload, error) {
	text := StripFences(string(data))
	if text == "" {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedPayload)
	}

	var wire wirePayload
	if err := sonic.UnmarshalString(text, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p := &Payload{
		TableName:     firstNonEmpty(wire.TableName, wire.NombreTabla),
		Columns:       make([]Column, 0, len(wire.Columns)+len(wire.Columnas)),
		Relationships: append(stringList(wire.Relationships), stringList(wire.RelacionesPosibles)...),
		KeyMetrics:    append(stringList(wire.KeyMetrics), stringList(wire.MetricasClave)...),
	}

	for _, c := range append(wire.Columns, wire.Columnas...) {
		name := strings.TrimSpace(firstNonEmpty(c.Name, c.Nombre))
		if name == "" {
			continue
		}
		p.Columns = append(p.Columns, Column{
			Name:        name,
			Type:        firstNonEmpty(c.Type, c.Tipo),
			Description: firstNonEmpty(c.Description, c.Descripcion),
		})
	}

	names := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		names = append(names, c.Name)
	}
	p.SampleRows = append(sampleRows(wire.SampleRows, names), sampleRows(wire.DatosEjemplo, names)...)

	return p, nil
}

// decodeLenient decodes raw into a generic value. Missing or unreadable
// input yields nil.
func decodeLenient(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// stringList reads a list of strings. A bare string is a one-element list;
// scalars are formatted and nested values dropped.
func stringList(raw json.RawMessage) []string {
	var items []any
	switch v := decodeLenient(raw).(type) {
	case []any:
		items = v
	case string:
		items = []any{v}
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if cell, ok := scalar(item); ok && cell != "" {
			out = append(out, cell)
		}
	}
	return out
}

// sampleRows reads sample rows given as arrays of cells or as objects keyed
// by column name, which are laid out in column order. Rows of any other
// shape are dropped.
func sampleRows(raw json.RawMessage, columns []string) [][]string {
	rows, ok := decodeLenient(raw).([]any)
	if !ok {
		return nil
	}

	var out [][]string
	for _, row := range rows {
		switch r := row.(type) {
		case []any:
			cells := make([]string, 0, len(r))
			for _, v := range r {
				cell, _ := scalar(v)
				cells = append(cells, cell)
			}
			out = append(out, cells)
		case map[string]any:
			cells := make([]string, 0, len(columns))
			for _, name := range columns {
				cell, _ := scalar(r[name])
				cells = append(cells, cell)
			}
			out = append(out, cells)
		}
	}
	return out
}

// scalar formats a JSON scalar. null is "", nested values are not scalars.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case float64, bool, json.Number:
		return fmt.Sprint(x), true
	default:
		return "", false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Profile classifies the payload columns by their semantic labels. The
// payload's table name wins over fallbackTable when present.
func (p *Payload) Profile(fallbackTable string) *profile.Profile {
	columns := make([]profile.LabeledColumn, 0, len(p.Columns))
	for _, c := range p.Columns {
		columns = append(columns, profile.LabeledColumn{
			Name:        c.Name,
			Label:       c.Type,
			Description: c.Description,
		})
	}

	result := profile.FromLabels(firstNonEmpty(p.TableName, fallbackTable), columns)
	result.Relationships = p.Relationships
	result.KeyMetrics = p.KeyMetrics
	return result
}
