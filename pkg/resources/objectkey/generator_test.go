package objectkey

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResourceFileKey(t *testing.T) {
	id := uuid.New()
	key := ResourceFile(id, "notes.pdf")
	assert.Equal(t, fmt.Sprintf("resources/%s/files/notes.pdf", id), key)
}

func TestResourceImageKey(t *testing.T) {
	id := uuid.New()
	key := ResourceImage(id, "cover.png")
	assert.Equal(t, fmt.Sprintf("resources/%s/images/cover.png", id), key)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"spaces", "my report.pdf", "my_report.pdf"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"windows path", "C:\\Users\\me\\pic.png", "pic.png"},
		{"special chars", "a:b*c?.txt", "a_b_c_.txt"},
		{"empty", "", "unnamed"},
		{"dot", ".", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
