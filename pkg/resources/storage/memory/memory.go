package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/edustack/resource-service/pkg/resources"
)

// Backend is an in-memory implementation of the resources.BlobStore interface
type Backend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	mtime map[string]time.Time
}

// New creates a new in-memory storage backend
func New() resources.BlobStore {
	return &Backend{
		blobs: make(map[string][]byte),
		mtime: make(map[string]time.Time),
	}
}

// Upload stores the blob directly in memory
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	b.mtime[key] = time.Now().UTC()
	return nil
}

// Download opens the blob stored under the given key
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, errors.New("blob not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob stored under the given key
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.blobs[key]; !exists {
		return errors.New("blob not found")
	}

	delete(b.blobs, key)
	delete(b.mtime, key)
	return nil
}

// GetBlobMeta retrieves metadata for a blob in memory
func (b *Backend) GetBlobMeta(ctx context.Context, key string) (*resources.BlobMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, errors.New("blob not found")
	}

	return &resources.BlobMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		UpdatedAt:   b.mtime[key],
	}, nil
}
