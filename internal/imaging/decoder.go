// Package imaging decodes batches of referenced images on a worker pool.
package imaging

import (
	"context"
	"image"
	"sync"
	"time"

	apperrors "go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/logger"
	"go-qc-inspector/internal/storage"

	"github.com/sirupsen/logrus"
)

// Decoder resolves image references through a fetcher, fanning the work out
// over a worker pool. With caching enabled, an image decoded by one call is
// reused by later calls.
type Decoder struct {
	fetcher storage.ImageFetcher
	pool    *WorkerPool

	cacheEnabled bool
	mu           sync.RWMutex
	cache        map[string]image.Image
}

// NewDecoder creates a decoder with the given number of workers (0 uses all CPUs)
func NewDecoder(fetcher storage.ImageFetcher, workers int, cache bool) *Decoder {
	pool := NewWorkerPool(workers)
	pool.Start()

	d := &Decoder{
		fetcher:      fetcher,
		pool:         pool,
		cacheEnabled: cache,
	}
	if cache {
		d.cache = make(map[string]image.Image)
	}
	return d
}

// Workers reports the pool size
func (d *Decoder) Workers() int {
	return d.pool.Workers()
}

// DecodeAll returns the decoded image for every path, in input order. Each
// distinct path is decoded once. Every job runs to completion; the first
// failure, in input order, is returned.
func (d *Decoder) DecodeAll(ctx context.Context, paths []string) ([]image.Image, error) {
	start := time.Now()

	unique := make([]string, 0, len(paths))
	slot := make(map[string]int, len(paths))
	for _, p := range paths {
		if _, ok := slot[p]; !ok {
			slot[p] = len(unique)
			unique = append(unique, p)
		}
	}

	decoded := make([]image.Image, len(unique))
	errs := make([]error, len(unique))

	var wg sync.WaitGroup
	cached := 0
	for i, p := range unique {
		if img, ok := d.cached(p); ok {
			decoded[i] = img
			cached++
			continue
		}
		i, p := i, p
		wg.Add(1)
		d.pool.Submit(func() {
			defer wg.Done()
			img, err := d.fetcher.FetchImage(ctx, p)
			if err != nil {
				errs[i] = err
				return
			}
			decoded[i] = img
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, apperrors.NewDecodeError("failed to read image", err).WithDetails("path: %s", unique[i])
		}
	}

	if d.cacheEnabled {
		d.mu.Lock()
		for i, p := range unique {
			d.cache[p] = decoded[i]
		}
		d.mu.Unlock()
	}

	images := make([]image.Image, len(paths))
	for i, p := range paths {
		images[i] = decoded[slot[p]]
	}

	logger.WithFields(logrus.Fields{
		"requested":   len(paths),
		"unique":      len(unique),
		"cache_hits":  cached,
		"workers":     d.pool.Workers(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Images decoded")

	return images, nil
}

func (d *Decoder) cached(path string) (image.Image, bool) {
	if !d.cacheEnabled {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	img, ok := d.cache[path]
	return img, ok
}

// Close waits for outstanding jobs and stops the workers
func (d *Decoder) Close() {
	d.pool.Wait()
	d.pool.Close()
}
