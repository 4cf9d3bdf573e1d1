package repository

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go-qc-inspector/internal/table"
)

func TestDirArtifactStore_Path(t *testing.T) {
	s := NewDirArtifactStore("out")
	got, err := s.Path("checkFrameSharpness 0.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != filepath.Join("out", "checkFrameSharpness 0.png") {
		t.Errorf("Path = %q", got)
	}

	for _, name := range []string{"", "..", "a/b.png", `a\b.png`} {
		if _, err := s.Path(name); !errors.Is(err, ErrInvalidArtifactName) {
			t.Errorf("Path(%q) error = %v, want ErrInvalidArtifactName", name, err)
		}
	}
}

func TestDirArtifactStore_SaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "grids")
	s := NewDirArtifactStore(dir)

	path, err := s.SaveImage(context.Background(), "m 1.png", image.NewGray(image.Rect(0, 0, 3, 2)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Expected PNG: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("Unexpected width %d", img.Bounds().Dx())
	}
}

func TestFileQCRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	content := "filepath,checkFrameSharpness\nReal/a.png,0.1\nFake/b.png,0.3\n"
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileQCRepository("filepath")
	ctx := context.Background()
	tbl, err := repo.LoadTable(ctx, []string{in})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", tbl.Len())
	}

	out := filepath.Join(dir, "out.csv")
	if err := repo.SaveTable(ctx, out, tbl); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	again, err := repo.LoadTable(ctx, []string{out})
	if err != nil {
		t.Fatalf("Unexpected error reloading: %v", err)
	}
	if again.Len() != 2 || !again.HasColumn("checkFrameSharpness") {
		t.Errorf("Unexpected reload: %d rows, columns %v", again.Len(), again.Columns())
	}
}

func TestFileQCRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileQCRepository("filepath").LoadTable(ctx, []string{"x.csv"}); err == nil {
		t.Error("Expected error for cancelled context")
	}
	if err := NewFileQCRepository("filepath").SaveTable(ctx, "x.csv", table.New("filepath")); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
