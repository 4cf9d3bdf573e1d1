package table

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperrors "go-qc-inspector/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_Basic(t *testing.T) {
	src := "checkFrameSharpness,checkSpecularReflection,filepath\n" +
		"0.1,0.5,/data/Real/a.png\n" +
		"0.3,inf,/data/fake/b.png\n" +
		",nan,/data/Real/c.png\n"

	tbl, err := NewLoader("filepath").Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", tbl.Len())
	}
	want := []string{"checkFrameSharpness", "checkSpecularReflection"}
	if !reflect.DeepEqual(tbl.Columns(), want) {
		t.Errorf("Expected columns %v, got %v", want, tbl.Columns())
	}
	if tbl.Rows[1].FilePath != "/data/fake/b.png" {
		t.Errorf("Unexpected filepath: %s", tbl.Rows[1].FilePath)
	}
	if v := tbl.Rows[1].Values["checkSpecularReflection"]; !math.IsInf(v, 1) {
		t.Errorf("Expected +Inf, got %v", v)
	}
	if v := tbl.Rows[2].Values["checkFrameSharpness"]; !math.IsNaN(v) {
		t.Errorf("Expected NaN for empty cell, got %v", v)
	}
	if tbl.Rows[2].Index != 2 {
		t.Errorf("Expected positional index 2, got %d", tbl.Rows[2].Index)
	}
}

func TestRead_TrailingDelimiterColumnDropped(t *testing.T) {
	src := "checkFrameSharpness,filepath,\n" +
		"0.1,/Real/a.png,\n" +
		"0.2,/Real/b.png,\n"

	tbl, err := NewLoader("filepath").Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns(), []string{"checkFrameSharpness"}) {
		t.Errorf("Expected trailing empty column to be dropped, got %v", tbl.Columns())
	}
}

func TestRead_UnnamedColumnWithValuesKept(t *testing.T) {
	src := "filepath,a,\n/Real/a.png,1,2\n"

	tbl, err := NewLoader("filepath").Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !tbl.HasColumn("Unnamed: 2") {
		t.Errorf("Expected populated unnamed column to be kept, got %v", tbl.Columns())
	}
}

func TestRead_IndexAndBoolColumns(t *testing.T) {
	src := ",filepath,m,didPassQC\n" +
		"7,/Real/a.png,0.1,True\n" +
		"3,/Real/b.png,0.4,False\n"

	tbl, err := NewLoader("filepath").Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tbl.Rows[0].Index != 7 || tbl.Rows[1].Index != 3 {
		t.Errorf("Expected indices from file, got %d and %d", tbl.Rows[0].Index, tbl.Rows[1].Index)
	}
	if tbl.Kind("didPassQC") != KindBool {
		t.Errorf("Expected bool kind, got %s", tbl.Kind("didPassQC"))
	}
	if tbl.Rows[0].Values["didPassQC"] != 1 || tbl.Rows[1].Values["didPassQC"] != 0 {
		t.Error("Unexpected bool values")
	}
	if !reflect.DeepEqual(tbl.Metrics(false), []string{"m"}) {
		t.Errorf("Expected bool column excluded from metrics, got %v", tbl.Metrics(false))
	}
	if !reflect.DeepEqual(tbl.Metrics(true), []string{"m", "didPassQC"}) {
		t.Errorf("Expected bool column included on request, got %v", tbl.Metrics(true))
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty input", ""},
		{"missing filepath", "a,b\n1,2\n"},
		{"non-numeric metric", "filepath,a\n/x.png,abc\n"},
		{"too many fields", "filepath,a\n/x.png,1,2\n"},
		{"duplicate column", "filepath,a,a\n/x.png,1,2\n"},
		{"bad index", ",filepath,a\nx,/x.png,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader("filepath").Read(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeSchema) && !apperrors.IsType(err, apperrors.ErrorTypeLoad) {
				t.Errorf("Expected schema or load error, got %v", err)
			}
		})
	}
}

func TestLoad_ConcatenatesRows(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "filepath,m,n\n/Real/1.png,1,10\n/Real/2.png,2,20\n")
	b := writeFile(t, dir, "b.csv", "filepath,m,n\n/fake/3.png,3,30\n")

	tbl, err := NewLoader("filepath").Load(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Expected 3 rows (2+1), got %d", tbl.Len())
	}
	wantM := []float64{1, 2, 3}
	wantN := []float64{10, 20, 30}
	for i, row := range tbl.Rows {
		if row.Values["m"] != wantM[i] || row.Values["n"] != wantN[i] {
			t.Errorf("Row %d values changed: %v", i, row.Values)
		}
	}
	// Source row indices restart per file.
	if tbl.Rows[2].Index != 0 {
		t.Errorf("Expected per-file index 0 for third row, got %d", tbl.Rows[2].Index)
	}
}

func TestLoad_ColumnUnion(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "filepath,m\n/Real/1.png,1\n")
	b := writeFile(t, dir, "b.csv", "filepath,n\n/Real/2.png,2\n")

	tbl, err := NewLoader("filepath").Load(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns(), []string{"m", "n"}) {
		t.Errorf("Expected union of columns, got %v", tbl.Columns())
	}
	if !math.IsNaN(tbl.Rows[0].Values["n"]) || !math.IsNaN(tbl.Rows[1].Values["m"]) {
		t.Error("Expected NaN for cells missing from a source file")
	}
}

func TestLoad_IncompatibleKinds(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "filepath,m\n/Real/1.png,1\n")
	b := writeFile(t, dir, "b.csv", "filepath,m\n/Real/2.png,True\n")

	_, err := NewLoader("filepath").Load(a, b)
	if !apperrors.IsType(err, apperrors.ErrorTypeSchema) {
		t.Errorf("Expected schema error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader("filepath").Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !apperrors.IsType(err, apperrors.ErrorTypeLoad) {
		t.Errorf("Expected load error, got %v", err)
	}
}
