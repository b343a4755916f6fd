package records

// Record maps a column name to its value. A column that is missing from the
// map reads as Absent.
type Record map[string]Value

// Get returns the value stored under col, or Absent.
func (r Record) Get(col string) Value {
	if r == nil {
		return Absent()
	}
	return r[col]
}

// Clone returns a shallow copy of r. List payloads are shared; they are never
// mutated after construction.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows with named, ordered columns.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is one of the table's columns.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Project returns a new table holding only cols, in that order. Rows keep
// their relative order; columns missing from a row are carried as Absent.
func (t *Table) Project(cols []string) *Table {
	out := &Table{
		Columns: append([]string(nil), cols...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(Record, len(cols))
		for _, c := range cols {
			nr[c] = r.Get(c)
		}
		out.Rows[i] = nr
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true, in
// their original order. Columns are copied.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
