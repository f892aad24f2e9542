package resources

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the main interface for the resource-service library
type Service interface {
	// Resource operations
	ListResources(ctx context.Context) ([]*Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error)
	UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest) (*Resource, error)
	DeleteResource(ctx context.Context, id uuid.UUID) error

	// Image operations
	UploadImage(ctx context.Context, resourceID uuid.UUID, req UploadImageRequest) (*Image, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error

	// Blob access (media serving)
	OpenBlob(ctx context.Context, key string) (io.ReadCloser, error)
	GetBlobMeta(ctx context.Context, key string) (*BlobMeta, error)
}
