package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Cancel(ctx context.Context, incident *models.Incident) error
	Finalize(ctx context.Context, incident *models.Incident) error
	ClearSignature(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.IncidentSummary, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]*models.IncidentSummary, error)
	UpdateIncident(ctx context.Context, id uuid.UUID, update models.IncidentUpdate) (*models.Incident, error)
	CancelIncident(ctx context.Context, id uuid.UUID, reason string) (*models.Incident, error)
}

type incidentService struct {
	tx     TxManager
	repo   IncidentRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewIncidentService(tx TxManager, repo IncidentRepository, logger *logrus.Logger) IncidentService {
	return &incidentService{
		tx:     tx,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateIncident создает инцидент в статусе in_progress
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "incident",
		"method":          "CreateIncident",
		"advisory_number": incident.AdvisoryNumber,
	})
	log.Info("Attempting to create a new incident")

	if incident.CreatedBy == uuid.Nil {
		return newValidationError("creator is required", "created_by")
	}

	incident.Status = models.StatusInProgress
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// ListIncidents возвращает проекцию всех инцидентов
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.IncidentSummary, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// UpdateIncident обновляет поля приема; разрешено только в статусе in_progress
func (s *incidentService) UpdateIncident(ctx context.Context, id uuid.UUID, update models.IncidentUpdate) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to update incident")

	var updated *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !existing.InProgress() {
			return fmt.Errorf("%w: cannot update incident with status %q", ErrConflict, existing.Status)
		}

		update.Apply(existing)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to update incident")
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	log.Info("Incident updated successfully")
	return updated, nil
}

// CancelIncident отменяет инцидент; разрешено только из статуса in_progress
func (s *incidentService) CancelIncident(ctx context.Context, id uuid.UUID, reason string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CancelIncident",
		"incident_id": id,
	})
	log.Info("Attempting to cancel incident")

	var canceled *models.Incident
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !existing.InProgress() {
			return fmt.Errorf("%w: cannot cancel incident with status %q", ErrConflict, existing.Status)
		}

		now := s.now().UTC()
		existing.Status = models.StatusCanceled
		existing.CanceledAt = &now
		existing.CancelReason = reason
		if err := s.repo.Cancel(ctx, existing); err != nil {
			return err
		}
		canceled = existing
		return nil
	})
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to cancel incident")
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	log.Info("Incident canceled successfully")
	return canceled, nil
}

// logFailure пишет ошибку с уровнем по ее классу; доменные ошибки возвращаются без обертки
func (s *incidentService) logFailure(log *logrus.Entry, err error, msg string) error {
	if IsDomainError(err) {
		log.WithError(err).Warn(msg)
		return err
	}
	log.WithError(err).Error(msg)
	return fmt.Errorf("service: %w", err)
}
