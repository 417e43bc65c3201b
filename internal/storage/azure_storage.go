package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// releaseTimeout bounds blob deletion, which runs even when the request
// context is already done
const releaseTimeout = 10 * time.Second

type azureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage stages uploads as blobs in container, creating it if missing
func NewAzureStorage(ctx context.Context, accountName, accountKey, container string) (StagingStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return newAzureStorageWithClient(ctx, client, container)
}

func newAzureStorageWithClient(ctx context.Context, client *azblob.Client, container string) (StagingStore, error) {
	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("create staging container %q: %w", container, err)
	}
	return &azureStorage{client: client, container: container}, nil
}

func (s *azureStorage) Backend() string {
	return "azure"
}

func (s *azureStorage) Stage(ctx context.Context, originalName string, data []byte) (StagedImage, error) {
	name := stagedName(originalName)
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return nil, fmt.Errorf("upload staged blob: %w", err)
	}
	return &azureStagedImage{store: s, name: name}, nil
}

type azureStagedImage struct {
	store *azureStorage
	name  string
	once  sync.Once
	err   error
}

func (a *azureStagedImage) Name() string {
	return a.name
}

func (a *azureStagedImage) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := a.store.client.DownloadStream(ctx, a.store.container, a.name, nil)
	if err != nil {
		return nil, fmt.Errorf("download staged blob: %w", err)
	}
	return resp.Body, nil
}

// Release deletes the blob on a fresh context so cancelled requests still
// clean up. Safe to call more than once.
func (a *azureStagedImage) Release(context.Context) error {
	a.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		_, err := a.store.client.DeleteBlob(ctx, a.store.container, a.name, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
			a.err = fmt.Errorf("delete staged blob: %w", err)
		}
	})
	return a.err
}
