package resources

import (
	"time"

	"github.com/google/uuid"
)

// Resource represents a learning resource record.
//
// FileKey is the blob-store key of the optional attached file; it is empty
// when no file has been uploaded. Tags holds the canonical comma-separated
// form produced by NormalizeTags.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileKey     string    `json:"resource_file,omitempty"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Images is populated by the service layer in upload order; it is not
	// persisted on the resource record itself.
	Images []*Image `json:"images,omitempty"`
}

// TagsList returns the tags decoded into an ordered list.
func (r *Resource) TagsList() []string {
	return ParseTags(r.Tags)
}

// Image represents an image attached to a resource. An image cannot exist
// without its owning resource; deleting the resource cascades to its images.
type Image struct {
	ID         uuid.UUID `json:"id"`
	ResourceID uuid.UUID `json:"resource_id"`
	ImageKey   string    `json:"image"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
