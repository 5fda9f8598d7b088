package table

import "sort"

// Row maps column names to cell values. A column absent from the map is
// distinct from a column present with a null cell.
type Row map[string]Cell

// Clone returns a copy of the row that shares no storage with the original.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows plus the declared column list from
// the source sheet's header row. Row order is visit-entry order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table with the given column list and no rows.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// CloneRows rebuilds every row so later in-place rewrites cannot reach rows
// held by an earlier pipeline stage.
func (t *Table) CloneRows() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// UnionColumns returns the union of keys across all rows in first-seen
// order. It is the fallback column list for sources without a readable
// header row, where a parser may omit keys for empty cells.
func UnionColumns(rows []Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		// Map iteration order is random; sort the keys new to this row so
		// the fallback column list is reproducible.
		sort.Strings(keys)
		cols = append(cols, keys...)
	}
	return cols
}
