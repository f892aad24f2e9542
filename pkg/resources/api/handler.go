package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/edustack/resource-service/pkg/resources"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

// Handler handles HTTP requests for resources and their images
type Handler struct {
	service   resources.Service
	presenter *Presenter
}

// NewHandler creates a new resource handler
func NewHandler(service resources.Service, presenter *Presenter) *Handler {
	return &Handler{
		service:   service,
		presenter: presenter,
	}
}

// Routes returns the routes for resources and images
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/resources/", h.ListResources)
	r.Post("/resources/", h.CreateResource)
	r.Get("/resources/{id}/", h.GetResource)
	r.Put("/resources/{id}/", h.UpdateResource)
	r.Patch("/resources/{id}/", h.PatchResource)
	r.Delete("/resources/{id}/", h.DeleteResource)

	r.Post("/resources/{id}/images/", h.UploadImage)
	r.Delete("/images/{id}/", h.DeleteImage)

	return r
}

// resourcePayload is the decoded write payload for a resource. Nil fields
// were absent from the request, which matters for PATCH.
type resourcePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`

	file *resources.FileUpload
}

// ListResources returns all resources, newest first
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListResources(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]ResourceResponse, 0, len(list))
	for _, resource := range list {
		resp = append(resp, h.presenter.Resource(r, resource))
	}

	render.JSON(w, r, resp)
}

// CreateResource creates a new resource from JSON or form data, with an
// optional file upload
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	payload, cleanup, err := h.decodeResourcePayload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	req := resources.CreateResourceRequest{File: payload.file}
	if payload.Title != nil {
		req.Title = *payload.Title
	}
	if payload.Description != nil {
		req.Description = *payload.Description
	}
	if payload.Tags != nil {
		req.Tags = *payload.Tags
	}

	resource, err := h.service.CreateResource(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	slog.Info("Resource created", "resource_id", resource.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.presenter.Resource(r, resource))
}

// GetResource retrieves a resource by ID
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.JSON(w, r, h.presenter.Resource(r, resource))
}

// UpdateResource fully updates a resource (PUT)
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PatchResource partially updates a resource (PATCH)
func (h *Handler) PatchResource(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	payload, cleanup, err := h.decodeResourcePayload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	resource, err := h.service.UpdateResource(r.Context(), id, resources.UpdateResourceRequest{
		Title:       payload.Title,
		Description: payload.Description,
		Tags:        payload.Tags,
		File:        payload.file,
		Partial:     partial,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	slog.Info("Resource updated", "resource_id", id.String(), "partial", partial)
	render.JSON(w, r, h.presenter.Resource(r, resource))
}

// DeleteResource deletes a resource and cascades to its images and blobs
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	slog.Info("Resource deleted", "resource_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage attaches an uploaded image to a resource. Expects multipart
// form data with a required "image" file and an optional "caption".
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	var req resources.UploadImageRequest
	if err := r.ParseMultipartForm(maxUploadMemory); err == nil {
		req.Caption = r.FormValue("caption")
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			req.File = &resources.FileUpload{FileName: header.Filename, Reader: file}
		}
	}

	image, err := h.service.UploadImage(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	slog.Info("Image uploaded", "image_id", image.ID.String(), "resource_id", id.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.presenter.Image(r, image))
}

// DeleteImage deletes a single image by its own ID
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Warn("Invalid image ID", "image_id", idStr)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	slog.Info("Image deleted", "image_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// ServeBlob streams a stored blob back to the client. Mount it under the
// media prefix the presenter was configured with, e.g.:
//
//	r.Get("/media/*", handler.ServeBlob)
func (h *Handler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	meta, err := h.service.GetBlobMeta(r.Context(), key)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	blob, err := h.service.OpenBlob(r.Context(), key)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	if _, err := io.Copy(w, blob); err != nil {
		slog.Warn("Failed to stream blob", "key", key, "error", err)
	}
}

// resourceID parses the {id} route parameter. An unparseable id behaves
// like an absent record: 404, empty body.
func (h *Handler) resourceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Warn("Invalid resource ID", "resource_id", idStr)
		w.WriteHeader(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// decodeResourcePayload decodes a resource write request from multipart
// form data, an urlencoded form, or JSON. The returned cleanup closes any
// uploaded file and must be called once the payload has been consumed.
func (h *Handler) decodeResourcePayload(r *http.Request) (resourcePayload, func(), error) {
	var payload resourcePayload
	cleanup := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return payload, cleanup, err
		}
		payload.Title = formValue(r.MultipartForm.Value, "title")
		payload.Description = formValue(r.MultipartForm.Value, "description")
		payload.Tags = formValue(r.MultipartForm.Value, "tags")

		if file, header, err := r.FormFile("resource_file"); err == nil {
			payload.file = &resources.FileUpload{FileName: header.Filename, Reader: file}
			cleanup = func() { file.Close() }
		}

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return payload, cleanup, err
		}
		payload.Title = formValue(r.PostForm, "title")
		payload.Description = formValue(r.PostForm, "description")
		payload.Tags = formValue(r.PostForm, "tags")

	default:
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			return payload, cleanup, err
		}
	}

	return payload, cleanup, nil
}

// formValue distinguishes an absent form field from an empty one.
func formValue(values map[string][]string, key string) *string {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

// writeError maps service errors onto the HTTP contract: validation
// failures become 400 with a field->messages body, missing records become
// 404 with an empty body, anything else is a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *resources.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, verr.Fields)
		return
	}

	if errors.Is(err, resources.ErrResourceNotFound) || errors.Is(err, resources.ErrImageNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	slog.Error("Request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
