package repository

import (
	"context"
	"image"

	"go-qc-inspector/internal/table"
)

// QCRepository defines how QC result tables are read and persisted
type QCRepository interface {
	// LoadTable reads and concatenates the tables at paths
	LoadTable(ctx context.Context, paths []string) (*table.Table, error)

	// SaveTable writes t to path
	SaveTable(ctx context.Context, path string, t *table.Table) error
}

// ArtifactStore defines where generated figures and grids are written
type ArtifactStore interface {
	// Path resolves a bare file name inside the store
	Path(name string) (string, error)

	// SaveImage encodes img as PNG under name and returns the written path
	SaveImage(ctx context.Context, name string, img image.Image) (string, error)
}
