package resources

import "io"

// Request DTOs

// FileUpload carries an uploaded blob and its client-supplied filename.
type FileUpload struct {
	FileName string
	Reader   io.Reader
}

// CreateResourceRequest contains parameters for creating a resource.
// Title is required; everything else is optional. Tags may be supplied in
// any raw comma-separated form and are normalized on write.
type CreateResourceRequest struct {
	Title       string
	Description string
	Tags        string
	File        *FileUpload
}

// UpdateResourceRequest contains parameters for updating a resource.
//
// Nil pointers mean "not supplied". With Partial set, unsupplied fields are
// left unchanged; without it, unsupplied optional fields are cleared and a
// missing title is a validation error. An unsupplied file is always left
// unchanged (there is no clear-file operation).
type UpdateResourceRequest struct {
	Title       *string
	Description *string
	Tags        *string
	File        *FileUpload
	Partial     bool
}

// UploadImageRequest contains parameters for attaching an image to a resource.
type UploadImageRequest struct {
	File    *FileUpload
	Caption string
}
