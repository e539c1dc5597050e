package gitlog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode normalizes possibly mis-encoded commit metadata to valid UTF-8.
// Valid UTF-8 passes through; anything else is reinterpreted as ISO 8859-1
// (historical commits predating UTF-8 discipline). Decode never fails.
func Decode(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}
	cooked, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		// Last resort: drop invalid sequences.
		return strings.ToValidUTF8(raw, "")
	}
	return cooked
}
