// Package domain holds the core data types shared across the generation
// pipeline: records, results, and the error taxonomy.
package domain

// Record is one data row from the source table, mapping column names to
// cell values. A blank cell is the empty string. Records are built once by
// the loader and never mutated afterwards.
type Record map[string]string

// Clone returns an independent copy of the record. Render-time field
// derivation works on a clone so the caller's record stays untouched.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Columns returns the record's column names in unspecified order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	return cols
}
