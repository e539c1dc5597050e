package main

import (
	"fmt"
	"io"

	"gitgerrit/internal/format"
)

// printRecord expands the output template against a record's field map and
// writes one line. With ascii set, non-ASCII runes are stripped from the
// values first, for terminals that cannot render them.
func printRecord(out io.Writer, template string, fields map[string]string, ascii bool) error {
	if ascii {
		fields = format.Asciitize(fields)
	}
	line, err := format.Expand(template, fields)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, line)
	return err
}
