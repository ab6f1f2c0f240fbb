package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service"
)

const signatureColumns = `
	s.id,
	s.incident_id,
	s.signer_name,
	s.signer_role,
	s.image_kind,
	s.image_value,
	s.signed_at,
	s.ip_address,
	s.user_agent,
	s.device_info,
	s.created_at,
	s.updated_at`

type SignatureRepository struct {
	db *pgxpool.Pool
}

func NewSignatureRepository(db *pgxpool.Pool) service.SignatureRepository {
	return &SignatureRepository{db: db}
}

func scanSignature(row pgx.Row) (*models.Signature, error) {
	signature := &models.Signature{}
	err := row.Scan(
		&signature.ID,
		&signature.IncidentID,
		&signature.SignerName,
		&signature.SignerRole,
		&signature.Image.Kind,
		&signature.Image.Value,
		&signature.SignedAt,
		&signature.IPAddress,
		&signature.UserAgent,
		&signature.DeviceInfo,
		&signature.CreatedAt,
		&signature.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return signature, nil
}

// Create сохраняет подпись. Уникальный индекс по incident_id отклоняет вторую подпись.
func (r *SignatureRepository) Create(ctx context.Context, signature *models.Signature) error {
	query := `
		INSERT INTO signatures (
			incident_id, signer_name, signer_role, image_kind, image_value,
			signed_at, ip_address, user_agent, device_info
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		signature.IncidentID,
		signature.SignerName,
		signature.SignerRole,
		string(signature.Image.Kind),
		signature.Image.Value,
		signature.SignedAt,
		signature.IPAddress,
		signature.UserAgent,
		signature.DeviceInfo,
	).Scan(&signature.ID, &signature.CreatedAt, &signature.UpdatedAt)
	if err != nil {
		return mapSignatureInsertErr(err)
	}
	return nil
}

// mapSignatureInsertErr переводит нарушение уникального индекса по incident_id в ErrAlreadySigned
func mapSignatureInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return service.ErrAlreadySigned
	}
	return fmt.Errorf("failed to create signature: %w", err)
}

// GetByID возвращает подпись по ее UUID
func (r *SignatureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error) {
	query := `SELECT ` + signatureColumns + ` FROM signatures s WHERE s.id = $1;`
	signature, err := scanSignature(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("signature with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get signature by id: %w", err)
	}
	return signature, nil
}

// GetByIncidentID возвращает подпись инцидента
func (r *SignatureRepository) GetByIncidentID(ctx context.Context, incidentID uuid.UUID) (*models.Signature, error) {
	query := `SELECT ` + signatureColumns + ` FROM signatures s WHERE s.incident_id = $1;`
	signature, err := scanSignature(conn(ctx, r.db).QueryRow(ctx, query, incidentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("signature for incident %s: %w", incidentID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get signature by incident: %w", err)
	}
	return signature, nil
}

func (r *SignatureRepository) ExistsForIncident(ctx context.Context, incidentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM signatures WHERE incident_id = $1);`
	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, query, incidentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check incident signature: %w", err)
	}
	return exists, nil
}

// ListByFinalizer возвращает подписи инцидентов, финализированных пользователем
func (r *SignatureRepository) ListByFinalizer(ctx context.Context, userID uuid.UUID) ([]*models.Signature, error) {
	query := `
		SELECT ` + signatureColumns + `
		FROM signatures s
		JOIN incidents i ON i.id = s.incident_id
		WHERE i.finalized_by = $1
		ORDER BY s.signed_at DESC;
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures: %w", err)
	}
	defer rows.Close()

	signatures := make([]*models.Signature, 0)
	for rows.Next() {
		signature, err := scanSignature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signature row: %w", err)
		}
		signatures = append(signatures, signature)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return signatures, nil
}

// UpdateRole меняет функцию подписавшего, остальные поля неизменяемы
func (r *SignatureRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Signature, error) {
	query := `
		UPDATE signatures s SET signer_role = $1, updated_at = NOW()
		WHERE s.id = $2
		RETURNING ` + signatureColumns + `;
	`
	signature, err := scanSignature(conn(ctx, r.db).QueryRow(ctx, query, role, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("signature with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update signature role: %w", err)
	}
	return signature, nil
}

func (r *SignatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM signatures WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete signature: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("signature with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// Stats считает подписи, финализированные инциденты и среднее время до подписания в минутах
func (r *SignatureRepository) Stats(ctx context.Context) (*models.SignatureStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM signatures),
			(SELECT COUNT(*) FROM incidents WHERE status = 'finalized' AND signature_id IS NOT NULL),
			COALESCE((
				SELECT AVG(EXTRACT(EPOCH FROM (s.signed_at - i.created_at)))
				FROM signatures s
				JOIN incidents i ON i.id = s.incident_id
			), 0)::float8;
	`
	var (
		total, finalized int
		avgSeconds       float64
	)
	if err := conn(ctx, r.db).QueryRow(ctx, query).Scan(&total, &finalized, &avgSeconds); err != nil {
		return nil, fmt.Errorf("failed to get signature stats: %w", err)
	}
	return &models.SignatureStats{
		TotalSignatures:           total,
		FinalizedIncidents:        finalized,
		AverageSigningTimeMinutes: int(math.Round(avgSeconds / 60)),
	}, nil
}
