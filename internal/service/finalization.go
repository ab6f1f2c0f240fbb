package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/shenikar/ignis_incident_service/internal/metrics"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/webhook"
	"github.com/sirupsen/logrus"
)

// FinalizationService определяет контракт финализации инцидента
type FinalizationService interface {
	Finalize(ctx context.Context, incidentID, actorID uuid.UUID, payload models.FinalizePayload, client models.ClientContext) (*models.FinalizationResult, error)
	GetFinalizationDetails(ctx context.Context, incidentID uuid.UUID) (*models.FinalizationDetails, error)
}

type finalizationService struct {
	finalizer   *finalizer
	incidents   IncidentRepository
	signatures  SignatureRepository
	media       MediaRepository
	logger      *logrus.Logger
	defaultRole string
}

func NewFinalizationService(
	tx TxManager,
	incidents IncidentRepository,
	signatures SignatureRepository,
	media MediaRepository,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) FinalizationService {
	return &finalizationService{
		finalizer:   newFinalizer(tx, incidents, signatures, media, publisher, logger, cfg),
		incidents:   incidents,
		signatures:  signatures,
		media:       media,
		logger:      logger,
		defaultRole: cfg.DefaultSignerRole,
	}
}

func newFinalizer(
	tx TxManager,
	incidents IncidentRepository,
	signatures SignatureRepository,
	media MediaRepository,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) *finalizer {
	return &finalizer{
		tx:          tx,
		incidents:   incidents,
		signatures:  signatures,
		media:       media,
		publisher:   publisher,
		logger:      logger,
		trustedHost: cfg.TrustedMediaHost,
		now:         time.Now,
	}
}

// Finalize сохраняет отчет, GPS, подпись и привязывает медиа в одной транзакции
func (s *finalizationService) Finalize(ctx context.Context, incidentID, actorID uuid.UUID, payload models.FinalizePayload, client models.ClientContext) (*models.FinalizationResult, error) {
	role := strings.TrimSpace(payload.SignerRole)
	if role == "" {
		role = s.defaultRole
	}
	if client.Platform == "" {
		client.Platform = "mobile"
	}

	return s.finalizer.transition(ctx, transitionInput{
		entry:         metrics.EntryFinalize,
		incidentID:    incidentID,
		actorID:       actorID,
		report:        trimmedReport(payload),
		signerName:    strings.TrimSpace(payload.SignerName),
		signerRole:    role,
		signatureURL:  strings.TrimSpace(payload.SignatureURL),
		signatureData: strings.TrimSpace(payload.SignatureData),
		mediaIDs:      payload.MediaIDs,
		client:        client,
	})
}

// GetFinalizationDetails возвращает инцидент с подписью, медиа и признаками заполненности
func (s *finalizationService) GetFinalizationDetails(ctx context.Context, incidentID uuid.UUID) (*models.FinalizationDetails, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "finalization",
		"method":      "GetFinalizationDetails",
		"incident_id": incidentID,
	})
	log.Info("Fetching finalization details")

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, err
	}

	var signature *models.Signature
	if incident.SignatureID != nil {
		signature, err = s.signatures.GetByID(ctx, *incident.SignatureID)
		if err != nil {
			log.WithError(err).Error("Failed to resolve incident signature")
			return nil, fmt.Errorf("service: could not resolve signature: %w", err)
		}
	}

	media, err := s.media.ListByIncidentID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Error("Failed to list incident media")
		return nil, fmt.Errorf("service: could not list media: %w", err)
	}

	return &models.FinalizationDetails{
		Incident:     incident,
		Signature:    signature,
		Media:        media,
		HasReport:    incident.Report.Complete(),
		HasSignature: incident.SignatureID != nil,
		HasMedia:     len(media) > 0,
	}, nil
}
