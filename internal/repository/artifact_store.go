package repository

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	apperrors "go-qc-inspector/internal/errors"
)

// DirArtifactStore writes artifacts into a single directory
type DirArtifactStore struct {
	dir string
}

// NewDirArtifactStore creates a store rooted at dir
func NewDirArtifactStore(dir string) ArtifactStore {
	return &DirArtifactStore{dir: dir}
}

// Path resolves name inside the store directory. Names containing a path
// separator are rejected since they come from column headers.
func (s *DirArtifactStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// SaveImage encodes img as PNG under name and returns the written path
func (s *DirArtifactStore) SaveImage(ctx context.Context, name string, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.Path(name)
	if err != nil {
		return "", apperrors.NewIOError("cannot place artifact", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.NewIOError("failed to create output directory", err).WithDetails("dir=%s", s.dir)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewIOError("failed to create artifact", err).WithDetails("path=%s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", apperrors.NewIOError("failed to encode PNG", err).WithDetails("path=%s", path)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.NewIOError("failed to close artifact", err).WithDetails("path=%s", path)
	}
	return path, nil
}
