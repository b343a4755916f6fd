package builtin

import "moviesclean/pkg/records"

// Require keeps only the records that carry a value for every field in
// Fields. An empty text value counts as present; only Absent is dropped.
type Require struct {
	Fields []string
}

// Keep reports whether rec passes the requirement.
func (r Require) Keep(rec records.Record) bool {
	for _, f := range r.Fields {
		if rec.Get(f).IsAbsent() {
			return false
		}
	}
	return true
}

// Apply returns a new table with the failing rows removed. Surviving rows
// keep their relative order.
func (r Require) Apply(in *records.Table) *records.Table {
	return in.Filter(r.Keep)
}
