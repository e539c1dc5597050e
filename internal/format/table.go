package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table renders a fixed-width terminal table. Used for the full-record
// views and the sync summary.
type Table struct {
	writer table.Writer
}

// NewTable returns a table writing to w with the given header columns.
func NewTable(w io.Writer, cols ...string) *Table {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	if len(cols) > 0 {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = c
		}
		tw.AppendHeader(row)
	}
	return &Table{writer: tw}
}

// Row appends one data row.
func (t *Table) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

// Render writes the table to the output writer.
func (t *Table) Render() {
	t.writer.Render()
}
