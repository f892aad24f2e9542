package resources_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/resource-service/pkg/resources"
	"github.com/edustack/resource-service/pkg/resources/repo/memory"
	memorystorage "github.com/edustack/resource-service/pkg/resources/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []resources.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []resources.Option{},
			expectError: true,
		},
		{
			name: "repository only should fail",
			options: []resources.Option{
				resources.WithRepository(memory.New()),
			},
			expectError: true,
		},
		{
			name: "repository and blob store should succeed",
			options: []resources.Option{
				resources.WithRepository(memory.New()),
				resources.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := resources.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) resources.Service {
	svc, err := resources.New(
		resources.WithRepository(memory.New()),
		resources.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

func strPtr(s string) *string { return &s }

func TestCreateResource(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("minimal", func(t *testing.T) {
		resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title: "Intro to Go",
		})
		require.NoError(t, err)
		assert.Equal(t, "Intro to Go", resource.Title)
		assert.Empty(t, resource.Description)
		assert.Empty(t, resource.FileKey)
		assert.Equal(t, "", resource.Tags)
		assert.Equal(t, []string{}, resource.TagsList())
		assert.Empty(t, resource.Images)
		assert.False(t, resource.CreatedAt.IsZero())
		assert.Equal(t, resource.CreatedAt, resource.UpdatedAt)
	})

	t.Run("tags normalized on write", func(t *testing.T) {
		resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title: "Tagged",
			Tags:  "x, y , ,z",
		})
		require.NoError(t, err)
		assert.Equal(t, "x, y, z", resource.Tags)
		assert.Equal(t, []string{"x", "y", "z"}, resource.TagsList())
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		_, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "  "})
		var verr *resources.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "title")
	})

	t.Run("with file", func(t *testing.T) {
		resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title: "With File",
			File: &resources.FileUpload{
				FileName: "notes.pdf",
				Reader:   strings.NewReader("pdf bytes"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "resources/"+resource.ID.String()+"/files/notes.pdf", resource.FileKey)

		blob, err := svc.OpenBlob(ctx, resource.FileKey)
		require.NoError(t, err)
		data, err := io.ReadAll(blob)
		require.NoError(t, err)
		require.NoError(t, blob.Close())
		assert.Equal(t, "pdf bytes", string(data))
	})
}

func TestGetResource(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "One"})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetResource(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "One", got.Title)
		assert.NotNil(t, got.Images)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetResource(ctx, uuid.New())
		assert.ErrorIs(t, err, resources.ErrResourceNotFound)
	})
}

func TestListResourcesNewestFirst(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "R1"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "R2"})
	require.NoError(t, err)

	list, err := svc.ListResources(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestUpdateResource(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("partial leaves other fields alone", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title:       "Original",
			Description: "desc",
			Tags:        "a, b",
			File: &resources.FileUpload{
				FileName: "file.bin",
				Reader:   strings.NewReader("data"),
			},
		})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		updated, err := svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			Description: strPtr("new description"),
			Partial:     true,
		})
		require.NoError(t, err)

		assert.Equal(t, "Original", updated.Title)
		assert.Equal(t, "new description", updated.Description)
		assert.Equal(t, "a, b", updated.Tags)
		assert.Equal(t, created.FileKey, updated.FileKey)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("full update clears absent optional fields", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title:       "Full",
			Description: "to be cleared",
			Tags:        "a, b",
		})
		require.NoError(t, err)

		updated, err := svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			Title:   strPtr("Replaced"),
			Partial: false,
		})
		require.NoError(t, err)

		assert.Equal(t, "Replaced", updated.Title)
		assert.Empty(t, updated.Description)
		assert.Empty(t, updated.Tags)
	})

	t.Run("full update requires title", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "Keep"})
		require.NoError(t, err)

		_, err = svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			Description: strPtr("whatever"),
			Partial:     false,
		})
		var verr *resources.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "title")
	})

	t.Run("tags normalized on update", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "Tags"})
		require.NoError(t, err)

		updated, err := svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			Tags:    strPtr(" go , http ,, rest "),
			Partial: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "go, http, rest", updated.Tags)
	})

	t.Run("omitted file is left unchanged on full update", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title: "File Keeper",
			File: &resources.FileUpload{
				FileName: "keep.bin",
				Reader:   strings.NewReader("keep"),
			},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			Title:   strPtr("File Keeper"),
			Partial: false,
		})
		require.NoError(t, err)
		assert.Equal(t, created.FileKey, updated.FileKey)
	})

	t.Run("replacing the file removes the old blob", func(t *testing.T) {
		created, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
			Title: "Replacer",
			File: &resources.FileUpload{
				FileName: "old.bin",
				Reader:   strings.NewReader("old"),
			},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateResource(ctx, created.ID, resources.UpdateResourceRequest{
			File: &resources.FileUpload{
				FileName: "new.bin",
				Reader:   strings.NewReader("new"),
			},
			Partial: true,
		})
		require.NoError(t, err)
		assert.NotEqual(t, created.FileKey, updated.FileKey)

		_, err = svc.OpenBlob(ctx, created.FileKey)
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateResource(ctx, uuid.New(), resources.UpdateResourceRequest{
			Title:   strPtr("nope"),
			Partial: true,
		})
		assert.ErrorIs(t, err, resources.ErrResourceNotFound)
	})
}

func TestDeleteResourceCascades(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{
		Title: "Doomed",
		File: &resources.FileUpload{
			FileName: "doc.pdf",
			Reader:   strings.NewReader("doc"),
		},
	})
	require.NoError(t, err)

	var imageIDs []uuid.UUID
	var imageKeys []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		image, err := svc.UploadImage(ctx, resource.ID, resources.UploadImageRequest{
			File: &resources.FileUpload{FileName: name, Reader: strings.NewReader(name)},
		})
		require.NoError(t, err)
		imageIDs = append(imageIDs, image.ID)
		imageKeys = append(imageKeys, image.ImageKey)
	}

	require.NoError(t, svc.DeleteResource(ctx, resource.ID))

	_, err = svc.GetResource(ctx, resource.ID)
	assert.ErrorIs(t, err, resources.ErrResourceNotFound)

	for _, id := range imageIDs {
		err := svc.DeleteImage(ctx, id)
		assert.ErrorIs(t, err, resources.ErrImageNotFound)
	}
	for _, key := range append(imageKeys, resource.FileKey) {
		_, err := svc.OpenBlob(ctx, key)
		assert.Error(t, err, "blob %s should be gone", key)
	}

	t.Run("delete absent resource", func(t *testing.T) {
		err := svc.DeleteResource(ctx, uuid.New())
		assert.ErrorIs(t, err, resources.ErrResourceNotFound)
	})
}

func TestUploadImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "Gallery"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		image, err := svc.UploadImage(ctx, resource.ID, resources.UploadImageRequest{
			File:    &resources.FileUpload{FileName: "cover.png", Reader: strings.NewReader("png")},
			Caption: "the cover",
		})
		require.NoError(t, err)
		assert.Equal(t, resource.ID, image.ResourceID)
		assert.Equal(t, "resources/"+resource.ID.String()+"/images/cover.png", image.ImageKey)
		assert.Equal(t, "the cover", image.Caption)
		assert.False(t, image.UploadedAt.IsZero())
	})

	t.Run("caption defaults to empty", func(t *testing.T) {
		image, err := svc.UploadImage(ctx, resource.ID, resources.UploadImageRequest{
			File: &resources.FileUpload{FileName: "plain.png", Reader: strings.NewReader("png")},
		})
		require.NoError(t, err)
		assert.Equal(t, "", image.Caption)
	})

	t.Run("images kept in upload order", func(t *testing.T) {
		got, err := svc.GetResource(ctx, resource.ID)
		require.NoError(t, err)
		require.Len(t, got.Images, 2)
		assert.Equal(t, "the cover", got.Images[0].Caption)
		assert.Equal(t, "", got.Images[1].Caption)
	})

	t.Run("missing blob is a validation error", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, resource.ID, resources.UploadImageRequest{Caption: "no file"})
		var verr *resources.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "image")
	})

	t.Run("unknown resource wins over missing blob", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, uuid.New(), resources.UploadImageRequest{})
		assert.ErrorIs(t, err, resources.ErrResourceNotFound)
		var verr *resources.ValidationError
		assert.False(t, errors.As(err, &verr))
	})
}

func TestDeleteImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.CreateResource(ctx, resources.CreateResourceRequest{Title: "Holder"})
	require.NoError(t, err)

	image, err := svc.UploadImage(ctx, resource.ID, resources.UploadImageRequest{
		File: &resources.FileUpload{FileName: "x.png", Reader: strings.NewReader("x")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(ctx, image.ID))

	_, err = svc.OpenBlob(ctx, image.ImageKey)
	assert.Error(t, err)

	got, err := svc.GetResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)

	t.Run("delete absent image", func(t *testing.T) {
		err := svc.DeleteImage(ctx, image.ID)
		assert.ErrorIs(t, err, resources.ErrImageNotFound)
	})
}
