package factory

import (
	"context"
	"fmt"

	"github.com/AphiweJoko/AgriAssist/internal/completion"
	"github.com/AphiweJoko/AgriAssist/internal/config"
	"github.com/AphiweJoko/AgriAssist/internal/storage"
)

// StorageType represents different staging backends
type StorageType string

const (
	// LocalStorage stages uploads on the local file system
	LocalStorage StorageType = config.StagingLocal
	// AzureStorage stages uploads as Azure blobs
	AzureStorage StorageType = config.StagingAzure
)

// StorageFactory creates staging stores
type StorageFactory interface {
	CreateStorage(ctx context.Context, storageType StorageType) (storage.StagingStore, error)
}

// CompletionFactory creates text-completion clients
type CompletionFactory interface {
	CreateCompletionClient() (completion.Client, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a staging store based on the specified type
func (f *storageFactory) CreateStorage(ctx context.Context, storageType StorageType) (storage.StagingStore, error) {
	switch storageType {
	case LocalStorage:
		return storage.NewLocalStorage(f.cfg.UploadDir)
	case AzureStorage:
		return storage.NewAzureStorage(ctx, f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.AzureStagingContainer)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// completionFactory implements CompletionFactory
type completionFactory struct {
	cfg *config.Config
}

// NewCompletionFactory creates a new completion factory
func NewCompletionFactory(cfg *config.Config) CompletionFactory {
	return &completionFactory{cfg: cfg}
}

// CreateCompletionClient creates an OpenAI-compatible client for the configured mode
func (f *completionFactory) CreateCompletionClient() (completion.Client, error) {
	client, err := completion.NewOpenAIClient(completion.OpenAIConfig{
		APIKey:     f.cfg.CompletionAPIKey,
		BaseURL:    f.cfg.CompletionBaseURL,
		Mode:       completion.Mode(f.cfg.CompletionMode),
		MaxRetries: f.cfg.CompletionMaxRetries,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory    StorageFactory
	CompletionFactory CompletionFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory:    NewStorageFactory(cfg),
		CompletionFactory: NewCompletionFactory(cfg),
	}
}
