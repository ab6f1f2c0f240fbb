package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/ignis_incident_service/internal/models"
)

const (
	webhookQueueKey = "incident_finalization_events"
)

// Типы событий
const (
	EventIncidentFinalized = "incident.finalized"
	EventIncidentSigned    = "incident.signed"
)

// WebhookEvent - событие о финализации инцидента
type WebhookEvent struct {
	Type           string    `json:"type"`
	IncidentID     uuid.UUID `json:"incident_id"`
	AdvisoryNumber string    `json:"advisory_number"`
	Status         string    `json:"status"`
	FinalizedBy    uuid.UUID `json:"finalized_by"`
	FinalizedAt    time.Time `json:"finalized_at"`
	SignatureID    uuid.UUID `json:"signature_id"`
	SignerName     string    `json:"signer_name"`
	LinkedMedia    int       `json:"linked_media"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewFinalizationEvent собирает событие из результата финализации
func NewFinalizationEvent(eventType string, result *models.FinalizationResult) WebhookEvent {
	event := WebhookEvent{
		Type:           eventType,
		IncidentID:     result.Incident.ID,
		AdvisoryNumber: result.Incident.AdvisoryNumber,
		Status:         result.Incident.Status,
		SignatureID:    result.Signature.ID,
		SignerName:     result.Signature.SignerName,
		LinkedMedia:    result.LinkedMedia,
		Timestamp:      time.Now().UTC(),
	}
	if result.Incident.FinalizedBy != nil {
		event.FinalizedBy = *result.Incident.FinalizedBy
	}
	if result.Incident.FinalizedAt != nil {
		event.FinalizedAt = *result.Incident.FinalizedAt
	}
	return event
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
