package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/shenikar/ignis_incident_service/internal/metrics"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/webhook"
	"github.com/sirupsen/logrus"
)

// SignatureRepository определяет контракт для работы с бд подписей
type SignatureRepository interface {
	Create(ctx context.Context, signature *models.Signature) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error)
	GetByIncidentID(ctx context.Context, incidentID uuid.UUID) (*models.Signature, error)
	ExistsForIncident(ctx context.Context, incidentID uuid.UUID) (bool, error)
	ListByFinalizer(ctx context.Context, userID uuid.UUID) ([]*models.Signature, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Signature, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*models.SignatureStats, error)
}

// SignatureService определяет контракт для работы с подписями
type SignatureService interface {
	Sign(ctx context.Context, actorID uuid.UUID, req models.SignRequest, client models.ClientContext) (*models.FinalizationResult, error)
	GetByIncident(ctx context.Context, incidentID uuid.UUID) (*models.Signature, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Signature, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Signature, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*models.SignatureStats, error)
}

type signatureService struct {
	finalizer  *finalizer
	tx         TxManager
	incidents  IncidentRepository
	signatures SignatureRepository
	logger     *logrus.Logger
}

func NewSignatureService(
	tx TxManager,
	incidents IncidentRepository,
	signatures SignatureRepository,
	media MediaRepository,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) SignatureService {
	return &signatureService{
		finalizer:  newFinalizer(tx, incidents, signatures, media, publisher, logger, cfg),
		tx:         tx,
		incidents:  incidents,
		signatures: signatures,
		logger:     logger,
	}
}

// Sign сохраняет подпись и переводит инцидент в статус finalized без итогового отчета
func (s *signatureService) Sign(ctx context.Context, actorID uuid.UUID, req models.SignRequest, client models.ClientContext) (*models.FinalizationResult, error) {
	in := transitionInput{
		entry:      metrics.EntrySign,
		incidentID: req.IncidentID,
		actorID:    actorID,
		signerName: strings.TrimSpace(req.SignerName),
		signerRole: strings.TrimSpace(req.SignerRole),
		client:     client,
	}
	data := strings.TrimSpace(req.SignatureData)
	if isRemoteReference(data) {
		in.signatureURL = data
	} else {
		in.signatureData = data
	}
	return s.finalizer.transition(ctx, in)
}

// GetByIncident возвращает подпись инцидента
func (s *signatureService) GetByIncident(ctx context.Context, incidentID uuid.UUID) (*models.Signature, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "signature",
		"method":      "GetByIncident",
		"incident_id": incidentID,
	})

	signature, err := s.signatures.GetByIncidentID(ctx, incidentID)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to get signature by incident")
	}
	return signature, nil
}

// GetByID возвращает подпись по ID
func (s *signatureService) GetByID(ctx context.Context, id uuid.UUID) (*models.Signature, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "signature",
		"method":       "GetByID",
		"signature_id": id,
	})

	signature, err := s.signatures.GetByID(ctx, id)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to get signature")
	}
	return signature, nil
}

// ListByUser возвращает подписи инцидентов, финализированных пользователем
func (s *signatureService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Signature, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "signature",
		"method":  "ListByUser",
		"user_id": userID,
	})

	signatures, err := s.signatures.ListByFinalizer(ctx, userID)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to list user signatures")
	}
	log.WithField("count", len(signatures)).Info("Signatures listed successfully")
	return signatures, nil
}

// UpdateRole исправляет только функцию подписавшего
func (s *signatureService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.Signature, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "signature",
		"method":       "UpdateRole",
		"signature_id": id,
	})
	log.Info("Attempting to correct signer role")

	signature, err := s.signatures.UpdateRole(ctx, id, strings.TrimSpace(role))
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to update signer role")
	}
	if err := s.incidents.InvalidateIncidentCache(ctx, signature.IncidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	return signature, nil
}

// Delete удаляет подпись, если инцидент еще не финализирован.
// Статус инцидента при этом не меняется.
func (s *signatureService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "signature",
		"method":       "Delete",
		"signature_id": id,
	})
	log.Info("Attempting to delete signature")

	var incidentID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		signature, err := s.signatures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		incidentID = signature.IncidentID

		incident, err := s.incidents.GetByIDForUpdate(ctx, signature.IncidentID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if incident != nil && incident.NormalizedStatus() == models.StatusFinalized {
			return fmt.Errorf("%w: cannot delete signature of a finalized incident", ErrConflict)
		}

		if err := s.signatures.Delete(ctx, id); err != nil {
			return err
		}
		if incident != nil && incident.SignatureID != nil && *incident.SignatureID == id {
			return s.incidents.ClearSignature(ctx, incident.ID)
		}
		return nil
	})
	if err != nil {
		return s.logFailure(log, err, "Failed to delete signature")
	}

	if err := s.incidents.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	log.Info("Signature deleted successfully")
	return nil
}

// Stats возвращает агрегированную статистику подписей
func (s *signatureService) Stats(ctx context.Context) (*models.SignatureStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "signature",
		"method":  "Stats",
	})

	stats, err := s.signatures.Stats(ctx)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to get signature stats")
	}
	return stats, nil
}

func (s *signatureService) logFailure(log *logrus.Entry, err error, msg string) error {
	if IsDomainError(err) {
		log.WithError(err).Warn(msg)
		return err
	}
	log.WithError(err).Error(msg)
	return fmt.Errorf("service: %w", err)
}
