package repository

import (
	"context"

	"go-qc-inspector/internal/table"
)

// FileQCRepository implements QCRepository on CSV files
type FileQCRepository struct {
	loader *table.Loader
}

// NewFileQCRepository creates a CSV-backed repository keyed on filePathColumn
func NewFileQCRepository(filePathColumn string) QCRepository {
	return &FileQCRepository{
		loader: table.NewLoader(filePathColumn),
	}
}

// LoadTable reads and concatenates the tables at paths
func (r *FileQCRepository) LoadTable(ctx context.Context, paths []string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.loader.Load(paths...)
}

// SaveTable writes t to path
func (r *FileQCRepository) SaveTable(ctx context.Context, path string, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return table.WriteCSV(path, t)
}
