package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureScheme prefixes blob references: az://<container>/<blob path>
const AzureScheme = "az"

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage creates a fetcher for az:// references using a shared key
func NewAzureStorage(accountName string, accountKey string) (ImageFetcher, error) {
	if accountName == "" || accountKey == "" {
		return nil, fmt.Errorf("azure account name and key are required")
	}
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

// ParseBlobRef splits an az:// reference into container and blob name
func ParseBlobRef(ref string) (string, string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob reference: %w", err)
	}
	if u.Scheme != AzureScheme {
		return "", "", fmt.Errorf("invalid blob reference scheme %q", u.Scheme)
	}
	blob := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || blob == "" {
		return "", "", fmt.Errorf("blob reference must name a container and blob: %q", ref)
	}
	return u.Host, blob, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	containerName, blobName, err := ParseBlobRef(ref)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, _, err := image.Decode(retryReader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
