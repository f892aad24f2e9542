package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/edustack/resource-service/pkg/resources"
)

// ImageResponse is the response body for an image
type ImageResponse struct {
	ID         string    `json:"id"`
	Resource   string    `json:"resource"`
	Image      string    `json:"image"`
	ImageURL   *string   `json:"image_url"`
	Caption    string    `json:"caption"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ResourceResponse is the response body for a resource
type ResourceResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ResourceFile    *string         `json:"resource_file"`
	ResourceFileURL *string         `json:"resource_file_url"`
	Tags            string          `json:"tags"`
	TagsList        []string        `json:"tags_list"`
	Images          []ImageResponse `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Presenter maps domain records to response bodies, deriving absolute blob
// URLs from the current request's base URL and the configured media prefix.
type Presenter struct {
	mediaPrefix string
}

// NewPresenter creates a presenter serving blob URLs under the given prefix
// (e.g. "/media").
func NewPresenter(mediaPrefix string) *Presenter {
	mediaPrefix = "/" + strings.Trim(mediaPrefix, "/")
	return &Presenter{mediaPrefix: mediaPrefix}
}

// Resource builds the response body for a resource, images included.
func (p *Presenter) Resource(r *http.Request, resource *resources.Resource) ResourceResponse {
	images := make([]ImageResponse, 0, len(resource.Images))
	for _, image := range resource.Images {
		images = append(images, p.Image(r, image))
	}

	resp := ResourceResponse{
		ID:              resource.ID.String(),
		Title:           resource.Title,
		Description:     resource.Description,
		ResourceFileURL: p.absoluteURL(r, resource.FileKey),
		Tags:            resource.Tags,
		TagsList:        resource.TagsList(),
		Images:          images,
		CreatedAt:       resource.CreatedAt,
		UpdatedAt:       resource.UpdatedAt,
	}
	if resource.FileKey != "" {
		key := resource.FileKey
		resp.ResourceFile = &key
	}

	return resp
}

// Image builds the response body for a single image.
func (p *Presenter) Image(r *http.Request, image *resources.Image) ImageResponse {
	return ImageResponse{
		ID:         image.ID.String(),
		Resource:   image.ResourceID.String(),
		Image:      image.ImageKey,
		ImageURL:   p.absoluteURL(r, image.ImageKey),
		Caption:    image.Caption,
		UploadedAt: image.UploadedAt,
	}
}

// absoluteURL joins the request base URL, the media prefix and a blob key.
// It returns nil when there is no blob, matching the null URL contract.
func (p *Presenter) absoluteURL(r *http.Request, key string) *string {
	if key == "" {
		return nil
	}
	url := baseURL(r) + p.mediaPrefix + "/" + key
	return &url
}

// baseURL reconstructs scheme://host from the incoming request.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
