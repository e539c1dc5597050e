// Package format expands {field} output templates against record field
// maps, for the --format flags and branch name templates.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError reports a template field that the record does not provide.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("unknown --format parameter: %s", e.Field)
}

var fieldRE = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand substitutes every {field} in template with its value from fields.
// A field absent from the map is a *FieldError.
func Expand(template string, fields map[string]string) (string, error) {
	var fieldErr *FieldError
	out := fieldRE.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := fields[name]
		if !ok {
			if fieldErr == nil {
				fieldErr = &FieldError{Field: name}
			}
			return m
		}
		return v
	})
	if fieldErr != nil {
		return "", fieldErr
	}
	return out, nil
}

// Asciitize strips non-ASCII runes from every value, for a retry after an
// encoding failure on the output stream.
func Asciitize(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		var b strings.Builder
		for _, r := range v {
			if r < 0x80 {
				b.WriteRune(r)
			}
		}
		out[k] = b.String()
	}
	return out
}
