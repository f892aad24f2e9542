// Package objectkey derives blob-store keys for resource files and images.
//
// Keys are namespaced by the owning resource id and fixed at upload time:
//
//	resources/{resource_id}/files/{filename}
//	resources/{resource_id}/images/{filename}
package objectkey

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ResourceFile returns the blob key for a resource's attached file.
func ResourceFile(resourceID uuid.UUID, filename string) string {
	return fmt.Sprintf("resources/%s/files/%s", resourceID, SanitizeFilename(filename))
}

// ResourceImage returns the blob key for an image owned by a resource.
func ResourceImage(resourceID uuid.UUID, filename string) string {
	return fmt.Sprintf("resources/%s/images/%s", resourceID, SanitizeFilename(filename))
}

// SanitizeFilename strips any client-supplied path and replaces characters
// that are problematic on common filesystems.
func SanitizeFilename(filename string) string {
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" || filename == "" {
		return "unnamed"
	}

	replacer := strings.NewReplacer(
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}
