package storage

import (
	"context"
	"fmt"
	"image"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
)

// BlobStore reads sheets from and writes cells to Azure Blob Storage
type BlobStore struct {
	client *azblob.Client
}

// NewBlobStore authenticates against the account with a shared key
func NewBlobStore(accountName string, accountKey string) (*BlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStore{client: client}, nil
}

// Fetch downloads the blob addressed by blobURL
// (https://<account>.blob.core.windows.net/<container>/<blob>) and decodes it.
func (s *BlobStore) Fetch(ctx context.Context, blobURL string) (image.Image, error) {
	containerName, blobName, err := splitBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, containerName, blobName)
		}
		return nil, fmt.Errorf("%w: download failed: %v", ErrUnavailable, err)
	}
	body := resp.Body
	defer body.Close()

	img, _, err := codec.Decode(body)
	return img, err
}

// Prepare creates the container if it does not exist yet
func (s *BlobStore) Prepare(ctx context.Context, containerName string) error {
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container %q: %w", containerName, err)
	}
	return nil
}

// Put uploads one encoded cell and returns its container relative name
func (s *BlobStore) Put(ctx context.Context, containerName, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.UploadBuffer(ctx, containerName, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", name, err)
	}
	return path.Join(containerName, name), nil
}

func splitBlobURL(blobURL string) (string, string, error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return "", "", fmt.Errorf("invalid blob URL: %q must name a container and a blob", blobURL)
	}
	return parts.ContainerName, parts.BlobName, nil
}
