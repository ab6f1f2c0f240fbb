package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service"
)

const mediaColumns = `
	id,
	incident_id,
	name,
	file_type,
	file_path,
	file_url,
	size,
	mime_type,
	stored,
	uploaded_by,
	captured_at,
	metadata,
	created_at,
	updated_at`

type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) service.MediaRepository {
	return &MediaRepository{db: db}
}

func scanMedia(row pgx.Row) (*models.Media, error) {
	media := &models.Media{}
	err := row.Scan(
		&media.ID,
		&media.IncidentID,
		&media.Name,
		&media.FileType,
		&media.FilePath,
		&media.FileURL,
		&media.Size,
		&media.MimeType,
		&media.Stored,
		&media.UploadedBy,
		&media.CapturedAt,
		&media.Metadata,
		&media.CreatedAt,
		&media.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return media, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (
			incident_id, name, file_type, file_path, file_url, size,
			mime_type, stored, uploaded_by, captured_at, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		media.IncidentID,
		media.Name,
		media.FileType,
		media.FilePath,
		media.FileURL,
		media.Size,
		media.MimeType,
		media.Stored,
		media.UploadedBy,
		media.CapturedAt,
		media.Metadata,
	).Scan(&media.ID, &media.CreatedAt, &media.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1;`
	media, err := scanMedia(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("media with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get media by id: %w", err)
	}
	return media, nil
}

func (r *MediaRepository) List(ctx context.Context) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media ORDER BY created_at DESC;`
	return r.query(ctx, query)
}

func (r *MediaRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = ANY($1::uuid[]);`
	return r.query(ctx, query, idStrings(ids))
}

// ListByIncidentID возвращает все медиа, привязанные к инциденту
func (r *MediaRepository) ListByIncidentID(ctx context.Context, incidentID uuid.UUID) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE incident_id = $1 ORDER BY captured_at;`
	return r.query(ctx, query, incidentID)
}

// LinkToIncident привязывает медиа к инциденту. Повторная привязка ничего не меняет по сути.
func (r *MediaRepository) LinkToIncident(ctx context.Context, incidentID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := `
		UPDATE media SET incident_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]);
	`
	cmdTag, err := conn(ctx, r.db).Exec(ctx, query, incidentID, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to link media to incident: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	query := `
		UPDATE media SET name = $1, metadata = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query, media.Name, media.Metadata, media.ID).Scan(&media.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("media with id %s: %w", media.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to update media: %w", err)
	}
	return nil
}

func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM media WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("media with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

func (r *MediaRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	cmdTag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM media WHERE id = ANY($1::uuid[]);`, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete media: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *MediaRepository) query(ctx context.Context, query string, args ...any) ([]*models.Media, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	media := make([]*models.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return media, nil
}
