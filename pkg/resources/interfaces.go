package resources

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for blob storage backends
type BlobStore interface {
	// Upload stores the blob read from reader under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the blob stored under the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under the given key
	Delete(ctx context.Context, key string) error

	// GetBlobMeta retrieves metadata for a stored blob
	GetBlobMeta(ctx context.Context, key string) (*BlobMeta, error)
}

// BlobMeta contains metadata about a blob in storage
type BlobMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Repository defines the interface for resource and image persistence.
//
// Repositories deal in flat records; the service layer attaches images to
// resources and owns cascade semantics.
type Repository interface {
	// Resource operations
	CreateResource(ctx context.Context, resource *Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	UpdateResource(ctx context.Context, resource *Resource) error
	DeleteResource(ctx context.Context, id uuid.UUID) error
	ListResources(ctx context.Context) ([]*Resource, error)

	// Image operations
	CreateImage(ctx context.Context, image *Image) error
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)
	ListImagesByResource(ctx context.Context, resourceID uuid.UUID) ([]*Image, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}
