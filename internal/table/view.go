package table

import (
	apperrors "go-qc-inspector/internal/errors"
)

// View is a filtered selection of a table's rows. It shares the table's
// rows rather than copying them.
type View struct {
	table *Table
	rows  []int
}

// Table returns the table the view selects from.
func (v *View) Table() *Table {
	return v.table
}

// Len returns the number of selected rows.
func (v *View) Len() int {
	return len(v.rows)
}

// Row returns the i-th selected row.
func (v *View) Row(i int) Row {
	return v.table.Rows[v.rows[i]]
}

// Indices returns the table positions of the selected rows.
func (v *View) Indices() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

// Filter narrows the view to rows for which keep returns true.
func (v *View) Filter(keep func(Row) bool) *View {
	rows := make([]int, 0, len(v.rows))
	for _, idx := range v.rows {
		if keep(v.table.Rows[idx]) {
			rows = append(rows, idx)
		}
	}
	return &View{table: v.table, rows: rows}
}

// Values returns the column's values for the selected rows in view order.
func (v *View) Values(column string) ([]float64, error) {
	if !v.table.HasColumn(column) {
		return nil, apperrors.NewSchemaError("metric column not found", nil).WithDetails("column=%s", column)
	}
	out := make([]float64, len(v.rows))
	for i, idx := range v.rows {
		out[i] = v.table.Rows[idx].Values[column]
	}
	return out, nil
}

// FilePaths returns the key column for the selected rows in view order.
func (v *View) FilePaths() []string {
	out := make([]string, len(v.rows))
	for i, idx := range v.rows {
		out[i] = v.table.Rows[idx].FilePath
	}
	return out
}
