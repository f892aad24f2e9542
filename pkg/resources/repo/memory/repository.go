package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/edustack/resource-service/pkg/resources"
)

// Repository implements resources.Repository using in-memory storage
type Repository struct {
	mu               sync.RWMutex
	resourceRecords  map[uuid.UUID]*resources.Resource
	imageRecords     map[uuid.UUID]*resources.Image
	imagesByResource map[uuid.UUID][]uuid.UUID // resource_id -> []image_id, upload order
}

// New creates a new in-memory repository
func New() resources.Repository {
	return &Repository{
		resourceRecords:  make(map[uuid.UUID]*resources.Resource),
		imageRecords:     make(map[uuid.UUID]*resources.Image),
		imagesByResource: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *resources.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	resourceCopy := *resource
	resourceCopy.Images = nil
	r.resourceRecords[resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resourceRecords[id]
	if !exists {
		return nil, resources.ErrResourceNotFound
	}

	resourceCopy := *resource
	return &resourceCopy, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *resources.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resourceRecords[resource.ID]; !exists {
		return resources.ErrResourceNotFound
	}

	resourceCopy := *resource
	resourceCopy.Images = nil
	r.resourceRecords[resource.ID] = &resourceCopy

	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resourceRecords[id]; !exists {
		return resources.ErrResourceNotFound
	}

	delete(r.resourceRecords, id)
	for _, imageID := range r.imagesByResource[id] {
		delete(r.imageRecords, imageID)
	}
	delete(r.imagesByResource, id)

	return nil
}

func (r *Repository) ListResources(ctx context.Context) ([]*resources.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*resources.Resource, 0, len(r.resourceRecords))
	for _, resource := range r.resourceRecords {
		resourceCopy := *resource
		result = append(result, &resourceCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Image operations

func (r *Repository) CreateImage(ctx context.Context, image *resources.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Verify the owning resource exists
	if _, exists := r.resourceRecords[image.ResourceID]; !exists {
		return resources.ErrResourceNotFound
	}

	imageCopy := *image
	r.imageRecords[image.ID] = &imageCopy
	r.imagesByResource[image.ResourceID] = append(r.imagesByResource[image.ResourceID], image.ID)

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*resources.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, exists := r.imageRecords[id]
	if !exists {
		return nil, resources.ErrImageNotFound
	}

	imageCopy := *image
	return &imageCopy, nil
}

func (r *Repository) ListImagesByResource(ctx context.Context, resourceID uuid.UUID) ([]*resources.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imageIDs := r.imagesByResource[resourceID]
	result := make([]*resources.Image, 0, len(imageIDs))
	for _, imageID := range imageIDs {
		if image, exists := r.imageRecords[imageID]; exists {
			imageCopy := *image
			result = append(result, &imageCopy)
		}
	}

	return result, nil
}

func (r *Repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	image, exists := r.imageRecords[id]
	if !exists {
		return resources.ErrImageNotFound
	}

	delete(r.imageRecords, id)

	ids := r.imagesByResource[image.ResourceID]
	for i, imageID := range ids {
		if imageID == id {
			r.imagesByResource[image.ResourceID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return nil
}
