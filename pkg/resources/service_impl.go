package resources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/resource-service/pkg/resources/objectkey"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// Resource operations

func (s *service) ListResources(ctx context.Context) ([]*Resource, error) {
	list, err := s.repository.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	for _, resource := range list {
		if err := s.attachImages(ctx, resource); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (s *service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return nil, &ResourceError{ResourceID: id, Op: "get", Err: err}
	}

	if err := s.attachImages(ctx, resource); err != nil {
		return nil, err
	}

	return resource, nil
}

func (s *service) CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	if strings.TrimSpace(req.Title) == "" {
		verr := NewValidationError()
		verr.Add("title", "This field is required.")
		return nil, verr
	}

	now := time.Now().UTC()
	resource := &Resource{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        NormalizeTags(req.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
		Images:      []*Image{},
	}

	if req.File != nil {
		key := objectkey.ResourceFile(resource.ID, req.File.FileName)
		if err := s.blobStore.Upload(ctx, key, req.File.Reader); err != nil {
			return nil, &StorageError{Key: key, Op: "upload", Err: err}
		}
		resource.FileKey = key
	}

	if err := s.repository.CreateResource(ctx, resource); err != nil {
		// Compensate: the record write failed after the blob write succeeded.
		s.discardBlob(ctx, resource.FileKey)
		return nil, &ResourceError{ResourceID: resource.ID, Op: "create", Err: err}
	}

	return resource, nil
}

func (s *service) UpdateResource(ctx context.Context, id uuid.UUID, req UpdateResourceRequest) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return nil, &ResourceError{ResourceID: id, Op: "update", Err: err}
	}

	if req.Partial {
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				verr := NewValidationError()
				verr.Add("title", "This field may not be blank.")
				return nil, verr
			}
			resource.Title = *req.Title
		}
		if req.Description != nil {
			resource.Description = *req.Description
		}
		if req.Tags != nil {
			resource.Tags = NormalizeTags(*req.Tags)
		}
	} else {
		if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
			verr := NewValidationError()
			verr.Add("title", "This field is required.")
			return nil, verr
		}
		resource.Title = *req.Title

		resource.Description = ""
		if req.Description != nil {
			resource.Description = *req.Description
		}

		resource.Tags = ""
		if req.Tags != nil {
			resource.Tags = NormalizeTags(*req.Tags)
		}
	}

	// An absent file always leaves the stored file unchanged; there is no
	// clear-file operation.
	previousKey := resource.FileKey
	uploadedKey := ""
	if req.File != nil {
		key := objectkey.ResourceFile(resource.ID, req.File.FileName)
		if err := s.blobStore.Upload(ctx, key, req.File.Reader); err != nil {
			return nil, &StorageError{Key: key, Op: "upload", Err: err}
		}
		resource.FileKey = key
		uploadedKey = key
	}

	resource.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateResource(ctx, resource); err != nil {
		if uploadedKey != "" && uploadedKey != previousKey {
			s.discardBlob(ctx, uploadedKey)
		}
		return nil, &ResourceError{ResourceID: id, Op: "update", Err: err}
	}

	// The replaced blob is unreferenced once the record write has succeeded.
	if uploadedKey != "" && previousKey != "" && previousKey != uploadedKey {
		s.discardBlob(ctx, previousKey)
	}

	if err := s.attachImages(ctx, resource); err != nil {
		return nil, err
	}

	return resource, nil
}

func (s *service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}

	// Cascade: images and their blobs go first, then the resource's own
	// file blob, then the resource record.
	images, err := s.repository.ListImagesByResource(ctx, id)
	if err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}

	for _, image := range images {
		s.discardBlob(ctx, image.ImageKey)
		if err := s.repository.DeleteImage(ctx, image.ID); err != nil {
			return &ImageError{ImageID: image.ID, Op: "cascade delete", Err: err}
		}
	}

	s.discardBlob(ctx, resource.FileKey)

	if err := s.repository.DeleteResource(ctx, id); err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}

	return nil
}

// Image operations

func (s *service) UploadImage(ctx context.Context, resourceID uuid.UUID, req UploadImageRequest) (*Image, error) {
	if _, err := s.repository.GetResource(ctx, resourceID); err != nil {
		return nil, &ResourceError{ResourceID: resourceID, Op: "upload image", Err: err}
	}

	if req.File == nil || req.File.Reader == nil {
		verr := NewValidationError()
		verr.Add("image", "Image file is required.")
		return nil, verr
	}

	image := &Image{
		ID:         uuid.New(),
		ResourceID: resourceID,
		ImageKey:   objectkey.ResourceImage(resourceID, req.File.FileName),
		Caption:    req.Caption,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.blobStore.Upload(ctx, image.ImageKey, req.File.Reader); err != nil {
		return nil, &StorageError{Key: image.ImageKey, Op: "upload", Err: err}
	}

	if err := s.repository.CreateImage(ctx, image); err != nil {
		s.discardBlob(ctx, image.ImageKey)
		return nil, &ImageError{ImageID: image.ID, Op: "create", Err: err}
	}

	return image, nil
}

func (s *service) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := s.repository.GetImage(ctx, id)
	if err != nil {
		return &ImageError{ImageID: id, Op: "delete", Err: err}
	}

	s.discardBlob(ctx, image.ImageKey)

	if err := s.repository.DeleteImage(ctx, id); err != nil {
		return &ImageError{ImageID: id, Op: "delete", Err: err}
	}

	return nil
}

// Blob access

func (s *service) OpenBlob(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.blobStore.Download(ctx, key)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "download", Err: err}
	}
	return reader, nil
}

func (s *service) GetBlobMeta(ctx context.Context, key string) (*BlobMeta, error) {
	meta, err := s.blobStore.GetBlobMeta(ctx, key)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "meta", Err: err}
	}
	return meta, nil
}

// attachImages populates resource.Images in upload order.
func (s *service) attachImages(ctx context.Context, resource *Resource) error {
	images, err := s.repository.ListImagesByResource(ctx, resource.ID)
	if err != nil {
		return &ResourceError{ResourceID: resource.ID, Op: "list images", Err: err}
	}
	resource.Images = images
	return nil
}

// discardBlob removes a blob best-effort. A missing blob is not an error
// here: cascade and compensation paths must tolerate partial prior failures.
func (s *service) discardBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobStore.Delete(ctx, key); err != nil {
		slog.Warn("Failed to delete blob", "key", key, "error", err)
	}
}
