package dataset

// Table is an immutable in-memory CSV table: an ordered header plus string
// cells. Column headers are matched verbatim against the source file,
// including any embedded or trailing whitespace (the water dataset carries
// "Number of Public Toilet " with a trailing space).
type Table struct {
	columns  []string
	rows     [][]string
	colIndex map[string]int
}

// NewTable builds a table from a header and rows. Rows shorter than the
// header are kept as-is; missing cells read as empty strings.
func NewTable(columns []string, rows [][]string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		// first occurrence wins for duplicate headers
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return &Table{columns: columns, rows: rows, colIndex: idx}
}

// Columns returns the header in source order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// HasColumn reports whether the named column exists, matched verbatim.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Cell returns the cell at (row, column name). The second return is false
// when the column does not exist or the row index is out of range; a row
// shorter than the header yields an empty string for its missing cells.
func (t *Table) Cell(row int, column string) (string, bool) {
	i, ok := t.colIndex[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	r := t.rows[row]
	if i >= len(r) {
		return "", true
	}
	return r[i], true
}
