package tabular

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Storage types produced by InferStorageType.
const (
	TypeDate    = "date"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeText    = "text"
)

var (
	isoDateValue   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	slashDateValue = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

	dateFormats = []string{
		"2006-01-02",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"01/02/2006",
		"02/01/2006",
		"02-01-2006",
		"Jan-2006",
		"January 2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}

	nullValues = map[string]bool{
		"":     true,
		"null": true,
		"NULL": true,
		"N/A":  true,
		"n/a":  true,
	}
)

func isNull(s string) bool {
	return nullValues[s]
}

// InferStorageType names the storage type of a column sample. The date check
// runs first: any date-shaped value makes the column a date. Otherwise the
// column is integer or float when every value is numeric, and text in every
// other case, including an empty sample.
func InferStorageType(sample []string) string {
	if len(sample) == 0 {
		return TypeText
	}

	for _, v := range sample {
		if isDate(v) {
			return TypeDate
		}
	}

	integer := true
	for _, v := range sample {
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		integer = false
		if !isNumeric(v) {
			return TypeText
		}
	}
	if integer {
		return TypeInteger
	}
	return TypeFloat
}

func isDate(s string) bool {
	if isoDateValue.MatchString(s) || slashDateValue.MatchString(s) {
		return true
	}
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// isNumeric accepts decimal numbers with optional thousands separators.
// NaN and Inf spellings are text.
func isNumeric(s string) bool {
	s = strings.ReplaceAll(s, ",", "")
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
