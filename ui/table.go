package ui

import (
	"io"
	"strings"
)

// Table lays out rows of cells in aligned columns.
type Table struct {
	rows   [][]string
	widths []int
}

func (t *Table) AddRow(cells ...string) {
	for i, c := range cells {
		w := StringWidth(c)
		if i < len(t.widths) {
			if t.widths[i] < w {
				t.widths[i] = w
			}
		} else {
			t.widths = append(t.widths, w)
		}
	}
	t.rows = append(t.rows, cells)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// WriteTo writes the table, columns separated by two spaces and rows by
// newlines.  The last column is not padded.
func (t *Table) WriteTo(w io.Writer) (n int64, err error) {
	var sb strings.Builder
	for _, row := range t.rows {
		for i, c := range row {
			if i == len(row)-1 {
				sb.WriteString(c)
			} else {
				sb.WriteString(PadRight(c, t.widths[i]))
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	written, err := io.WriteString(w, sb.String())
	return int64(written), err
}
