package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(cfg *config.Config) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewWebhookWorker(nil, logger, cfg)
}

func TestProcessWebhookEvent_SignsPayload(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Webhook-Signature")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        server.URL,
		WebhookSecret:     "s3cr3t",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 1,
	})

	event := WebhookEvent{Type: EventIncidentFinalized, IncidentID: uuid.New()}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	worker.processWebhookEvent(context.Background(), event, string(payload))

	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(string(payload), "s3cr3t"), gotSignature)
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 5,
		WebhookBaseDelay:  time.Millisecond,
	})

	worker.processWebhookEvent(context.Background(), WebhookEvent{Type: EventIncidentSigned}, `{}`)

	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessWebhookEvent_SingleAttemptByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	worker := newTestWorker(&config.Config{
		WebhookURL:     server.URL,
		WebhookTimeout: time.Second,
	})

	worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)

	assert.Equal(t, int32(1), calls.Load())
}

func TestProcessWebhookEvent_NoURLSkipsDelivery(t *testing.T) {
	worker := newTestWorker(&config.Config{WebhookTimeout: time.Second})

	assert.NotPanics(t, func() {
		worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)
	})
}

func TestNewFinalizationEvent(t *testing.T) {
	finalizedBy := uuid.New()
	finalizedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	result := &models.FinalizationResult{
		Incident: &models.Incident{
			ID:             uuid.New(),
			AdvisoryNumber: "ADV-7",
			Status:         models.StatusFinalized,
			FinalizedBy:    &finalizedBy,
			FinalizedAt:    &finalizedAt,
		},
		Signature:   &models.Signature{ID: uuid.New(), SignerName: "J. Silva"},
		LinkedMedia: 3,
	}

	event := NewFinalizationEvent(EventIncidentFinalized, result)

	assert.Equal(t, EventIncidentFinalized, event.Type)
	assert.Equal(t, result.Incident.ID, event.IncidentID)
	assert.Equal(t, finalizedBy, event.FinalizedBy)
	assert.Equal(t, finalizedAt, event.FinalizedAt)
	assert.Equal(t, result.Signature.ID, event.SignatureID)
	assert.Equal(t, 3, event.LinkedMedia)
}
