package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/resource-service/pkg/resources"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements resources.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) resources.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) resources.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return resources.ErrResourceNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *resources.Resource) error {
	query := `
		INSERT INTO resources (
			id, title, description, file_key, tags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description,
		resource.FileKey, resource.Tags, resource.CreatedAt, resource.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create resource", err)
	}

	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
	query := `
		SELECT id, title, description, file_key, tags, created_at, updated_at
		FROM resources WHERE id = $1`

	var resource resources.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resource.ID, &resource.Title, &resource.Description,
		&resource.FileKey, &resource.Tags, &resource.CreatedAt, &resource.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, resources.ErrResourceNotFound
		}
		return nil, r.handlePostgresError("get resource", err)
	}

	return &resource, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *resources.Resource) error {
	query := `
		UPDATE resources SET
			title = $2, description = $3, file_key = $4, tags = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		resource.ID, resource.Title, resource.Description,
		resource.FileKey, resource.Tags, resource.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return resources.ErrResourceNotFound
	}

	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return resources.ErrResourceNotFound
	}

	return nil
}

func (r *Repository) ListResources(ctx context.Context) ([]*resources.Resource, error) {
	query := `
		SELECT id, title, description, file_key, tags, created_at, updated_at
		FROM resources ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list resources", err)
	}
	defer rows.Close()

	var result []*resources.Resource
	for rows.Next() {
		var resource resources.Resource
		if err := rows.Scan(
			&resource.ID, &resource.Title, &resource.Description,
			&resource.FileKey, &resource.Tags, &resource.CreatedAt, &resource.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("list resources", err)
		}
		result = append(result, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list resources", err)
	}

	return result, nil
}

// Image operations

func (r *Repository) CreateImage(ctx context.Context, image *resources.Image) error {
	query := `
		INSERT INTO resource_images (
			id, resource_id, image_key, caption, uploaded_at
		) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		image.ID, image.ResourceID, image.ImageKey, image.Caption, image.UploadedAt)

	if err != nil {
		return r.handlePostgresError("create image", err)
	}

	return nil
}

func (r *Repository) GetImage(ctx context.Context, id uuid.UUID) (*resources.Image, error) {
	query := `
		SELECT id, resource_id, image_key, caption, uploaded_at
		FROM resource_images WHERE id = $1`

	var image resources.Image
	err := r.db.QueryRow(ctx, query, id).Scan(
		&image.ID, &image.ResourceID, &image.ImageKey, &image.Caption, &image.UploadedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, resources.ErrImageNotFound
		}
		return nil, r.handlePostgresError("get image", err)
	}

	return &image, nil
}

func (r *Repository) ListImagesByResource(ctx context.Context, resourceID uuid.UUID) ([]*resources.Image, error) {
	query := `
		SELECT id, resource_id, image_key, caption, uploaded_at
		FROM resource_images WHERE resource_id = $1 ORDER BY uploaded_at ASC`

	rows, err := r.db.Query(ctx, query, resourceID)
	if err != nil {
		return nil, r.handlePostgresError("list images", err)
	}
	defer rows.Close()

	result := []*resources.Image{}
	for rows.Next() {
		var image resources.Image
		if err := rows.Scan(
			&image.ID, &image.ResourceID, &image.ImageKey, &image.Caption, &image.UploadedAt); err != nil {
			return nil, r.handlePostgresError("list images", err)
		}
		result = append(result, &image)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list images", err)
	}

	return result, nil
}

func (r *Repository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resource_images WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return resources.ErrImageNotFound
	}

	return nil
}
