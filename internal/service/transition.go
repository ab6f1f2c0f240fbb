package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/metrics"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/webhook"
	"github.com/sirupsen/logrus"
)

// TxManager выполняет функцию в одной транзакции БД.
// При ошибке fn все записи откатываются, а ошибка возвращается без изменений.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// transitionInput - данные перехода in_progress -> finalized
type transitionInput struct {
	entry         string
	incidentID    uuid.UUID
	actorID       uuid.UUID
	report        *models.FinalReport // nil для отдельной точки подписания
	signerName    string
	signerRole    string
	signatureURL  string
	signatureData string
	mediaIDs      []uuid.UUID
	client        models.ClientContext
}

// finalizer - единственная реализация перехода в статус finalized.
// Используется и финализацией, и отдельной точкой подписания.
type finalizer struct {
	tx          TxManager
	incidents   IncidentRepository
	signatures  SignatureRepository
	media       MediaRepository
	publisher   webhook.WebhookPublisher
	logger      *logrus.Logger
	trustedHost string
	now         func() time.Time
}

func (f *finalizer) transition(ctx context.Context, in transitionInput) (*models.FinalizationResult, error) {
	log := f.logger.WithFields(logrus.Fields{
		"service":     "finalization",
		"entry":       in.entry,
		"incident_id": in.incidentID,
		"actor_id":    in.actorID,
	})
	log.Info("Attempting to finalize incident")

	result := &models.FinalizationResult{}
	err := f.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Инцидент должен существовать
		incident, err := f.incidents.GetByIDForUpdate(ctx, in.incidentID)
		if err != nil {
			return err
		}

		// 2. Статус должен быть in_progress
		if !incident.InProgress() {
			return fmt.Errorf("%w: cannot finalize incident with status %q", ErrConflict, incident.Status)
		}

		// 3. Подписи еще не должно быть
		exists, err := f.signatures.ExistsForIncident(ctx, incident.ID)
		if err != nil {
			return err
		}
		if exists || incident.SignatureID != nil {
			return ErrAlreadySigned
		}

		// 4-6. Обязательные поля и представление подписи
		if err := in.validate(f.trustedHost); err != nil {
			return err
		}

		now := f.now().UTC()
		image, _ := models.NewSignatureImage(in.signatureURL, in.signatureData)
		signature := &models.Signature{
			IncidentID: incident.ID,
			SignerName: in.signerName,
			SignerRole: in.signerRole,
			Image:      image,
			SignedAt:   now,
			IPAddress:  in.client.IPAddress,
			UserAgent:  in.client.UserAgent,
			DeviceInfo: models.DeviceInfo{
				Platform:         in.client.Platform,
				ScreenResolution: in.client.ScreenResolution,
				Timestamp:        now,
			},
		}
		if err := f.signatures.Create(ctx, signature); err != nil {
			return err
		}

		if in.report != nil {
			incident.Report = *in.report
		}
		actorID := in.actorID
		incident.SignatureID = &signature.ID
		incident.Status = models.StatusFinalized
		incident.FinalizedBy = &actorID
		incident.FinalizedAt = &now
		if err := f.incidents.Finalize(ctx, incident); err != nil {
			return err
		}

		if len(in.mediaIDs) > 0 {
			linked, err := f.media.LinkToIncident(ctx, incident.ID, in.mediaIDs)
			if err != nil {
				return err
			}
			result.LinkedMedia = int(linked)
		}

		result.Incident = incident
		result.Signature = signature
		return nil
	})
	if err != nil {
		metrics.ObserveFinalization(in.entry, outcomeOf(err))
		if IsDomainError(err) {
			log.WithError(err).Warn("Finalization rejected")
			return nil, err
		}
		log.WithError(err).Error("Finalization failed, transaction rolled back")
		return nil, err
	}
	metrics.ObserveFinalization(in.entry, "ok")

	// После коммита: сбрасываем кеш и публикуем событие. Ошибки здесь не откатывают финализацию.
	if err := f.incidents.InvalidateIncidentCache(ctx, result.Incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	eventType := webhook.EventIncidentFinalized
	if in.entry == metrics.EntrySign {
		eventType = webhook.EventIncidentSigned
	}
	if err := f.publisher.Publish(ctx, webhook.NewFinalizationEvent(eventType, result)); err != nil {
		log.WithError(err).Warn("Failed to publish finalization event")
	}

	log.WithFields(logrus.Fields{
		"signature_id": result.Signature.ID,
		"linked_media": result.LinkedMedia,
	}).Info("Incident finalized successfully")
	return result, nil
}

// validate проверяет обязательные поля и формат подписи.
// Финализация проверяет шаги 4-6, отдельная подпись без отчета - только шаг 4.
func (in transitionInput) validate(trustedHost string) error {
	if missing := missingFinalizeFields(in.report, in.signerName, in.signatureURL, in.signatureData); len(missing) > 0 {
		return newValidationError("missing required fields", missing...)
	}
	if in.report == nil {
		if in.signatureData != "" && !isImageDataURI(in.signatureData) {
			return newValidationError("invalid signature data: expected an image data URI", "signature_data")
		}
		return nil
	}
	if in.signatureData != "" && !isValidSignatureData(in.signatureData) {
		return newValidationError("invalid signature data: expected a base64 image data URI", "signature_data")
	}
	if in.signatureURL != "" && !isTrustedMediaURL(in.signatureURL, trustedHost) {
		return newValidationError("invalid signature url: must be hosted on the trusted media host", "signature_url")
	}
	return nil
}

// outcomeOf возвращает метку класса ошибки для метрик
func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func trimmedReport(p models.FinalizePayload) *models.FinalReport {
	return &models.FinalReport{
		DeployedUnit:      strings.TrimSpace(p.DeployedUnit),
		Team:              strings.TrimSpace(p.Team),
		ActionDescription: strings.TrimSpace(p.ActionDescription),
		FinalLatitude:     p.FinalLatitude,
		FinalLongitude:    p.FinalLongitude,
	}
}
