// Package table holds QC results as a row-oriented table keyed by image path,
// with one value per metric column, plus filtered views over it.
package table

import (
	"fmt"
	"math"

	apperrors "go-qc-inspector/internal/errors"
)

// Kind is the value type of a column.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Row is one image's QC result. Bool columns are stored as 1/0, missing
// cells as NaN.
type Row struct {
	Index    int
	FilePath string
	Values   map[string]float64
}

// Value returns the named column's value and whether the row carries it.
func (r Row) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Table is the concatenation of one or more QC result files.
type Table struct {
	filePathColumn string
	columns        []string
	kinds          map[string]Kind
	Rows           []Row

	// keyPos is the number of columns written before the key column
	keyPos int
}

// New returns an empty table whose key column is filePathColumn.
func New(filePathColumn string) *Table {
	return &Table{
		filePathColumn: filePathColumn,
		kinds:          make(map[string]Kind),
	}
}

// FilePathColumn returns the name of the key column.
func (t *Table) FilePathColumn() string {
	return t.filePathColumn
}

// Columns returns every non-key column in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a non-key column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.kinds[name]
	return ok
}

// Kind returns the value type of a column.
func (t *Table) Kind(name string) Kind {
	return t.kinds[name]
}

// Fields returns the key column and every other column in file order.
func (t *Table) Fields() []string {
	pos := t.keyPos
	if pos > len(t.columns) {
		pos = len(t.columns)
	}
	out := make([]string, 0, len(t.columns)+1)
	out = append(out, t.columns[:pos]...)
	out = append(out, t.filePathColumn)
	return append(out, t.columns[pos:]...)
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Metrics lists the columns to analyse. Bool columns, such as a derived
// verdict, are only included when includeBool is set.
func (t *Table) Metrics(includeBool bool) []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if t.kinds[c] == KindBool && !includeBool {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (t *Table) addColumn(name string, kind Kind) error {
	if name == t.filePathColumn {
		return apperrors.NewSchemaError("column clashes with key column", nil).WithDetails("column=%s", name)
	}
	if existing, ok := t.kinds[name]; ok {
		if existing != kind {
			return apperrors.NewSchemaError("incompatible column types", nil).
				WithDetails("column=%s have=%s want=%s", name, existing, kind)
		}
		return nil
	}
	t.columns = append(t.columns, name)
	t.kinds[name] = kind
	return nil
}

// AddBoolColumn evaluates fn for every row and stores the result as a new
// bool column appended after the existing ones. No row is modified if fn
// fails.
func (t *Table) AddBoolColumn(name string, fn func(Row) (bool, error)) error {
	if t.HasColumn(name) {
		return apperrors.NewSchemaError("column already exists", nil).WithDetails("column=%s", name)
	}
	results := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		ok, err := fn(row)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i, row.FilePath, err)
		}
		if ok {
			results[i] = 1
		}
	}
	if err := t.addColumn(name, KindBool); err != nil {
		return err
	}
	for i := range t.Rows {
		t.Rows[i].Values[name] = results[i]
	}
	return nil
}

// All returns a view over every row.
func (t *Table) All() *View {
	rows := make([]int, len(t.Rows))
	for i := range rows {
		rows[i] = i
	}
	return &View{table: t, rows: rows}
}

// Concat appends the rows of every table into one, taking the union of
// their columns. Cells missing from a source table become NaN. Source row
// indices are preserved.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, apperrors.NewLoadError("no tables to concatenate", nil)
	}
	out := New(tables[0].filePathColumn)
	out.keyPos = tables[0].keyPos
	total := 0
	for _, t := range tables {
		if t.filePathColumn != out.filePathColumn {
			return nil, apperrors.NewSchemaError("key columns differ", nil).
				WithDetails("have=%s want=%s", t.filePathColumn, out.filePathColumn)
		}
		for _, c := range t.columns {
			if err := out.addColumn(c, t.kinds[c]); err != nil {
				return nil, err
			}
		}
		total += len(t.Rows)
	}

	out.Rows = make([]Row, 0, total)
	for _, t := range tables {
		for _, r := range t.Rows {
			values := make(map[string]float64, len(out.columns))
			for _, c := range out.columns {
				if v, ok := r.Values[c]; ok {
					values[c] = v
				} else {
					values[c] = math.NaN()
				}
			}
			out.Rows = append(out.Rows, Row{Index: r.Index, FilePath: r.FilePath, Values: values})
		}
	}
	return out, nil
}
