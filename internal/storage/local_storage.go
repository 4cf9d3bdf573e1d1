package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageFetcher resolves an image reference and decodes it.
type ImageFetcher interface {
	FetchImage(ctx context.Context, path string) (image.Image, error)
}

// LocalImageFetcher reads images from the local filesystem. Plain paths and
// file:// URLs are accepted.
type LocalImageFetcher struct{}

// NewLocalImageFetcher creates a filesystem image fetcher
func NewLocalImageFetcher() ImageFetcher {
	return &LocalImageFetcher{}
}

func (l *LocalImageFetcher) FetchImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL: %w", err)
		}
		path = u.Path
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
