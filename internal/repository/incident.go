package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service"
)

const incidentColumns = `
	id,
	advisory_number,
	type,
	received_at,
	activation_method,
	situation,
	initial_nature,
	address,
	requester,
	initial_latitude,
	initial_longitude,
	status,
	created_by,
	finalized_by,
	deployed_unit,
	team,
	action_description,
	final_latitude,
	final_longitude,
	finalized_at,
	signature_id,
	canceled_at,
	cancel_reason,
	created_at,
	updated_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.AdvisoryNumber,
		&incident.Type,
		&incident.ReceivedAt,
		&incident.ActivationMethod,
		&incident.Situation,
		&incident.InitialNature,
		&incident.Address,
		&incident.Requester,
		&incident.InitialLatitude,
		&incident.InitialLongitude,
		&incident.Status,
		&incident.CreatedBy,
		&incident.FinalizedBy,
		&incident.Report.DeployedUnit,
		&incident.Report.Team,
		&incident.Report.ActionDescription,
		&incident.Report.FinalLatitude,
		&incident.Report.FinalLongitude,
		&incident.FinalizedAt,
		&incident.SignatureID,
		&incident.CanceledAt,
		&incident.CancelReason,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (
			advisory_number, type, received_at, activation_method, situation, initial_nature,
			address, requester, initial_latitude, initial_longitude, status, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		incident.AdvisoryNumber,
		incident.Type,
		incident.ReceivedAt,
		incident.ActivationMethod,
		incident.Situation,
		incident.InitialNature,
		incident.Address,
		incident.Requester,
		incident.InitialLatitude,
		incident.InitialLongitude,
		incident.Status,
		incident.CreatedBy,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// GetByIDForUpdate читает инцидент с блокировкой строки до конца транзакции
func (r *IncidentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1 FOR UPDATE;`
	incident, err := scanIncident(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident: %w", err)
	}
	return incident, nil
}

// Update обновляет поля приема
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			advisory_number = $1,
			type = $2,
			received_at = $3,
			activation_method = $4,
			situation = $5,
			initial_nature = $6,
			address = $7,
			requester = $8,
			initial_latitude = $9,
			initial_longitude = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		incident.AdvisoryNumber,
		incident.Type,
		incident.ReceivedAt,
		incident.ActivationMethod,
		incident.Situation,
		incident.InitialNature,
		incident.Address,
		incident.Requester,
		incident.InitialLatitude,
		incident.InitialLongitude,
		incident.ID,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s not found for update: %w", incident.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to update incident: %w", err)
	}
	return nil
}

// Cancel сохраняет статус canceled, время и причину отмены
func (r *IncidentRepository) Cancel(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			status = $1,
			canceled_at = $2,
			cancel_reason = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		incident.Status,
		incident.CanceledAt,
		incident.CancelReason,
		incident.ID,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s not found for cancel: %w", incident.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to cancel incident: %w", err)
	}
	return nil
}

// Finalize сохраняет итоговый отчет, GPS, ссылку на подпись и статус finalized
func (r *IncidentRepository) Finalize(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			status = $1,
			finalized_by = $2,
			finalized_at = $3,
			deployed_unit = $4,
			team = $5,
			action_description = $6,
			final_latitude = $7,
			final_longitude = $8,
			signature_id = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at;
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		incident.Status,
		incident.FinalizedBy,
		incident.FinalizedAt,
		incident.Report.DeployedUnit,
		incident.Report.Team,
		incident.Report.ActionDescription,
		incident.Report.FinalLatitude,
		incident.Report.FinalLongitude,
		incident.SignatureID,
		incident.ID,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s not found for finalize: %w", incident.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to finalize incident: %w", err)
	}
	return nil
}

// ClearSignature убирает ссылку на подпись, статус не меняется
func (r *IncidentRepository) ClearSignature(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE incidents SET signature_id = NULL, updated_at = NOW() WHERE id = $1;`
	cmdTag, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear incident signature: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// List возвращает проекцию всех инцидентов
func (r *IncidentRepository) List(ctx context.Context) ([]*models.IncidentSummary, error) {
	query := `
		SELECT id, initial_nature, status, received_at, address
		FROM incidents
		ORDER BY received_at DESC;
	`
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.IncidentSummary, 0)
	for rows.Next() {
		incident := &models.IncidentSummary{}
		err := rows.Scan(
			&incident.ID,
			&incident.InitialNature,
			&incident.Status,
			&incident.ReceivedAt,
			&incident.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
