package factory

import (
	"fmt"
	"path/filepath"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/config"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
)

// Output is a saver bound to the root it writes under: a directory for the
// local backend, a container for azure.
type Output struct {
	Backend config.StorageBackend
	Saver   storage.Saver
	Root    string
}

// Batch creates a save batch that keeps one job's cells apart from others.
// Local jobs get their own directory; blob jobs a name prefix.
func (o Output) Batch(jobID, base, ext string) *storage.Batch {
	if o.Backend == config.StorageAzure {
		return storage.NewBatch(o.Root, jobID+"/"+base, ext)
	}
	return storage.NewBatch(filepath.Join(o.Root, jobID), base, ext)
}

// StorageFactory creates storage implementations from configuration
type StorageFactory interface {
	SheetFetcher() storage.SheetFetcher
	BlobStore() (*storage.BlobStore, error)
	Output() (Output, error)
}

type storageFactory struct {
	cfg  *config.Config
	blob *storage.BlobStore
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// SheetFetcher returns the HTTP(S) fetcher
func (f *storageFactory) SheetFetcher() storage.SheetFetcher {
	return storage.NewHTTPFetcher(f.cfg.ImageFetchTimeout)
}

// BlobStore returns the shared blob store, or nil when no account is set
func (f *storageFactory) BlobStore() (*storage.BlobStore, error) {
	if f.blob != nil {
		return f.blob, nil
	}
	if f.cfg.AzureAccountName == "" || f.cfg.AzureAccountKey == "" {
		return nil, nil
	}
	blob, err := storage.NewBlobStore(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	if err != nil {
		return nil, err
	}
	f.blob = blob
	return blob, nil
}

// Output creates the saver selected by STORAGE_BACKEND
func (f *storageFactory) Output() (Output, error) {
	switch f.cfg.StorageBackend {
	case config.StorageLocal:
		return Output{Backend: config.StorageLocal, Saver: storage.NewLocalSaver(), Root: f.cfg.OutputDir}, nil
	case config.StorageAzure:
		blob, err := f.BlobStore()
		if err != nil {
			return Output{}, err
		}
		if blob == nil {
			return Output{}, fmt.Errorf("azure backend requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return Output{Backend: config.StorageAzure, Saver: blob, Root: f.cfg.AzureContainer}, nil
	default:
		return Output{}, fmt.Errorf("unsupported storage backend: %s", f.cfg.StorageBackend)
	}
}
