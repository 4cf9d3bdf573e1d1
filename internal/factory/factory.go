package factory

import (
	"fmt"
	"time"

	"go-qc-inspector/internal/storage"
)

// StorageType represents different types of image sources
type StorageType string

const (
	// HTTPStorage for http(s) image references
	HTTPStorage StorageType = "http"
	// AzureStorage for az:// blob references
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system paths
	LocalStorage StorageType = "local"
)

// StorageOptions carries the settings the backends need
type StorageOptions struct {
	FetchTimeout     time.Duration
	AzureAccountName string
	AzureAccountKey  string
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	opts StorageOptions
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(opts StorageOptions) StorageFactory {
	return &storageFactory{opts: opts}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.opts.FetchTimeout), nil
	case AzureStorage:
		return storage.NewAzureStorage(f.opts.AzureAccountName, f.opts.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalImageFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// NewRouter builds a router serving local paths, http(s) URLs and, when
// credentials are configured, az:// blob references
func NewRouter(f StorageFactory, opts StorageOptions) (*storage.Router, error) {
	local, err := f.CreateStorage(LocalStorage)
	if err != nil {
		return nil, err
	}
	router := storage.NewRouter(local)

	remote, err := f.CreateStorage(HTTPStorage)
	if err != nil {
		return nil, err
	}
	router.Register("http", remote)
	router.Register("https", remote)

	if opts.AzureAccountName != "" && opts.AzureAccountKey != "" {
		azure, err := f.CreateStorage(AzureStorage)
		if err != nil {
			return nil, fmt.Errorf("azure storage: %w", err)
		}
		router.Register(storage.AzureScheme, azure)
	}
	return router, nil
}
