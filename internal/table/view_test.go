package table

import (
	"reflect"
	"strings"
	"testing"
)

func TestView_FilterSharesRows(t *testing.T) {
	tbl := sampleTable(t)
	reals := tbl.All().Filter(func(r Row) bool { return strings.Contains(r.FilePath, "Real") })

	if reals.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", reals.Len())
	}
	if !reflect.DeepEqual(reals.Indices(), []int{0, 1}) {
		t.Errorf("Unexpected indices: %v", reals.Indices())
	}
	if reals.Table() != tbl {
		t.Error("View must reference its source table")
	}

	// A column added after filtering is visible through the view.
	if err := tbl.AddBoolColumn("flag", func(Row) (bool, error) { return true, nil }); err != nil {
		t.Fatal(err)
	}
	flags, err := reals.Values("flag")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(flags, []float64{1, 1}) {
		t.Errorf("Expected flags through view, got %v", flags)
	}
}

func TestView_ValuesAndPaths(t *testing.T) {
	tbl := sampleTable(t)
	v := tbl.All().Filter(func(r Row) bool { return strings.Contains(r.FilePath, "fake") })

	paths := v.FilePaths()
	if !reflect.DeepEqual(paths, []string{"/fake/c.png", "/fake/d.png"}) {
		t.Errorf("Unexpected paths: %v", paths)
	}
	vals, err := v.Values("checkSpecularReflection")
	if err != nil {
		t.Fatal(err)
	}
	if vals[1] != 1.05 {
		t.Errorf("Expected 1.05, got %v", vals[1])
	}
	if _, err := v.Values("absent"); err == nil {
		t.Error("Expected error for missing column")
	}
}
