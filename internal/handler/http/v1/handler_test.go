package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/auth"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service"
	"github.com/shenikar/ignis_incident_service/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	incidents    *mocks.MockIncidentService
	finalization *mocks.MockFinalizationService
	signatures   *mocks.MockSignatureService
	media        *mocks.MockMediaService
}

type testEnv struct {
	mocks  testMocks
	router *gin.Engine
	userID uuid.UUID
	auth   map[string]string
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// newTestHandler создает Handler с мокированными сервисами и настоящим менеджером токенов
func newTestHandler(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	m := testMocks{
		incidents:    mocks.NewMockIncidentService(ctrl),
		finalization: mocks.NewMockFinalizationService(ctrl),
		signatures:   mocks.NewMockSignatureService(ctrl),
		media:        mocks.NewMockMediaService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		SignedURLTTL:    time.Hour,
		MaxUploadSizeMB: 1,
		MaxUploadFiles:  2,
	}

	tokens := auth.NewTokenManager("test-secret", "ignis")
	userID := uuid.New()
	token, err := tokens.Issue(userID, "operator@example.com", auth.RoleOperator, time.Hour)
	require.NoError(t, err)

	handler := NewHandler(Services{
		Incidents:    m.incidents,
		Finalization: m.finalization,
		Signatures:   m.signatures,
		Media:        m.media,
	}, tokens, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return &testEnv{
		mocks:  m,
		router: router,
		userID: userID,
		auth:   map[string]string{"Authorization": "Bearer " + token},
	}
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func validCreateRequest() map[string]any {
	return map[string]any{
		"advisory_number":   "ADV-2024-001",
		"type":              "fire",
		"received_at":       "2024-05-01T10:00:00Z",
		"activation_method": "phone",
		"situation":         "active fire",
		"initial_nature":    "residential fire",
		"address": map[string]any{
			"street":       "Rua A",
			"number":       "10",
			"neighborhood": "Centro",
			"municipality": "Recife",
		},
		"requester": map[string]any{
			"name":     "Maria",
			"phone":    "(81) 98765-4321",
			"relation": "neighbor",
		},
	}
}

func finalizationResult(incidentID uuid.UUID, image models.SignatureImage) *models.FinalizationResult {
	finalizedAt := time.Now()
	return &models.FinalizationResult{
		Incident: &models.Incident{
			ID:             incidentID,
			AdvisoryNumber: "ADV-1",
			Status:         models.StatusFinalized,
			FinalizedAt:    &finalizedAt,
			Report:         models.FinalReport{DeployedUnit: "ABT-45", Team: "Cmd+2"},
		},
		Signature: &models.Signature{
			ID:         uuid.New(),
			IncidentID: incidentID,
			SignerName: "J. Silva",
			SignerRole: "Responsável",
			Image:      image,
			SignedAt:   finalizedAt,
		},
		LinkedMedia: 2,
	}
}

func TestHealthCheck_NoAuth(t *testing.T) {
	env := newTestHandler(t)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestAuth_MissingToken(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.incidents.EXPECT().ListIncidents(gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "access token required", resp.Message)
}

func TestAuth_InvalidToken(t *testing.T) {
	env := newTestHandler(t)

	other := auth.NewTokenManager("other-secret", "ignis")
	token, err := other.Issue(uuid.New(), "", auth.RoleSupervisor, time.Hour)
	require.NoError(t, err)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired token", decodeEnvelope(t, w).Message)
}

func TestCreateIncident_Success(t *testing.T) {
	env := newTestHandler(t)
	incidentID := uuid.New()

	env.mocks.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.Equal(t, env.userID, inc.CreatedBy)
			assert.Equal(t, "Recife", inc.Address.Municipality)
			inc.ID = incidentID
			inc.Status = models.StatusInProgress
			return nil
		}).Times(1)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, validCreateRequest()), env.auth)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	var data IncidentResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, incidentID, data.ID)
	assert.Equal(t, models.StatusInProgress, data.Status)
	assert.Equal(t, env.userID, data.CreatedBy)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(`{"type": "fire"`), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeEnvelope(t, w).Message)
}

func TestCreateIncident_ValidationError(t *testing.T) {
	env := newTestHandler(t)
	body := validCreateRequest()
	delete(body, "advisory_number")
	body["requester"].(map[string]any)["phone"] = "abc"

	env.mocks.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, body), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.ElementsMatch(t, []string{"advisory_number", "phone"}, resp.Errors)
}

func TestCreateIncident_ServiceError(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(errors.New("service: could not create incident: connection refused")).
		Times(1)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, validCreateRequest()), env.auth)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestListIncidents_Success(t *testing.T) {
	env := newTestHandler(t)
	summaries := []*models.IncidentSummary{
		{ID: uuid.New(), InitialNature: "fire", Status: models.StatusInProgress},
		{ID: uuid.New(), InitialNature: "rescue", Status: models.StatusFinalized},
	}

	env.mocks.incidents.EXPECT().ListIncidents(gomock.Any()).Return(summaries, nil).Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	var data []IncidentSummaryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	require.Len(t, data, 2)
	assert.Equal(t, summaries[1].ID, data[1].ID)
	assert.NotContains(t, w.Body.String(), "advisory_number")
}

func TestGetIncident_InvalidID(t *testing.T) {
	env := newTestHandler(t)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil, env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid incident ID", decodeEnvelope(t, w).Message)
}

func TestGetIncident_NotFound(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()

	env.mocks.incidents.EXPECT().GetIncident(gomock.Any(), id).Return(nil, service.ErrNotFound).Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/"+id.String(), nil, env.auth)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "incident not found", decodeEnvelope(t, w).Message)
}

func TestUpdateIncident_Conflict(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	conflict := fmt.Errorf("%w: incident is finalized", service.ErrConflict)

	env.mocks.incidents.EXPECT().
		UpdateIncident(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, update models.IncidentUpdate) (*models.Incident, error) {
			require.NotNil(t, update.Situation)
			assert.Equal(t, "under control", *update.Situation)
			assert.Nil(t, update.Type)
			return nil, conflict
		}).Times(1)

	w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+id.String(), bytes.NewBufferString(`{"situation":"under control"}`), env.auth)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, conflict.Error(), decodeEnvelope(t, w).Message)
}

func TestCancelIncident_EmptyBody(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()

	env.mocks.incidents.EXPECT().
		CancelIncident(gomock.Any(), id, "").
		Return(&models.Incident{ID: id, Status: models.StatusCanceled}, nil).
		Times(1)

	w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+id.String()+"/cancel", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.StatusCanceled)
}

func TestFinalizeIncident_Success(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	url := "https://res.cloudinary.com/demo/image/upload/sig.png"
	photoID := uuid.New()

	env.mocks.finalization.EXPECT().
		Finalize(gomock.Any(), id, env.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, payload models.FinalizePayload, client models.ClientContext) (*models.FinalizationResult, error) {
			assert.Equal(t, "ABT-45", payload.DeployedUnit)
			assert.Equal(t, url, payload.SignatureURL)
			assert.Equal(t, []uuid.UUID{photoID}, payload.MediaIDs)
			assert.Equal(t, "203.0.113.7", client.IPAddress)
			assert.Equal(t, "android", client.Platform)
			return finalizationResult(id, models.SignatureImage{Kind: models.SignatureImageRemote, Value: url}), nil
		}).Times(1)

	body := map[string]any{
		"deployed_unit":      "ABT-45",
		"team":               "Cmd+2",
		"action_description": "contained fire",
		"final_latitude":     -23.55,
		"final_longitude":    -46.63,
		"signer_name":        "J. Silva",
		"signature_url":      url,
		"signature_data":     "data:image/png;base64,iVBORw0KGgo=",
		"photos_ids":         []string{photoID.String()},
		"platform":           "android",
	}
	headers := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+id.String()+"/finalize", jsonBody(t, body), env.auth, headers)

	assert.Equal(t, http.StatusOK, w.Code)
	var data FinalizationResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, models.StatusFinalized, data.Incident.Status)
	assert.Equal(t, "ABT-45", data.Incident.DeployedUnit)
	assert.Equal(t, url, data.Signature.SignatureURL)
	assert.Empty(t, data.Signature.SignatureData)
	assert.Equal(t, 2, data.LinkedPhotos)
}

func TestFinalizeIncident_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErrors []string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, nil},
		{"already signed", service.ErrAlreadySigned, http.StatusConflict, nil},
		{"missing fields", &service.ValidationError{Message: "missing required fields", Fields: []string{"team", "signer_name"}}, http.StatusBadRequest, []string{"team", "signer_name"}},
		{"unexpected", errors.New("service: could not finalize incident: tx aborted"), http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestHandler(t)
			id := uuid.New()

			env.mocks.finalization.EXPECT().
				Finalize(gomock.Any(), id, env.userID, gomock.Any(), gomock.Any()).
				Return(nil, tt.err).
				Times(1)

			w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+id.String()+"/finalize", bytes.NewBufferString(`{}`), env.auth)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErrors, resp.Errors)
		})
	}
}

func TestFinalizeIncident_RejectsOutOfRangeLatitude(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()

	env.mocks.finalization.EXPECT().Finalize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPatch, "/api/v1/incidents/"+id.String()+"/finalize", bytes.NewBufferString(`{"final_latitude": 123.4}`), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"final_latitude"}, decodeEnvelope(t, w).Errors)
}

func TestGetFinalizationDetails_Success(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	details := &models.FinalizationDetails{
		Incident:     &models.Incident{ID: id, Status: models.StatusFinalized},
		Signature:    &models.Signature{ID: uuid.New(), IncidentID: id, Image: models.SignatureImage{Kind: models.SignatureImageInline, Value: "data:image/png;base64,AAAA"}},
		Media:        []*models.Media{{ID: uuid.New(), Name: "a.jpg"}},
		HasSignature: true,
		HasMedia:     true,
	}

	env.mocks.finalization.EXPECT().GetFinalizationDetails(gomock.Any(), id).Return(details, nil).Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/incidents/"+id.String()+"/finalization-details", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	var data FinalizationDetailsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.False(t, data.HasReport)
	assert.True(t, data.HasSignature)
	assert.True(t, data.HasPhotos)
	require.NotNil(t, data.Signature)
	assert.Equal(t, "data:image/png;base64,AAAA", data.Signature.SignatureData)
	assert.Len(t, data.Photos, 1)
}

func TestSignIncident_Success(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	data := "data:image/png;base64,iVBORw0KGgo="

	env.mocks.signatures.EXPECT().
		Sign(gomock.Any(), env.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, req models.SignRequest, client models.ClientContext) (*models.FinalizationResult, error) {
			assert.Equal(t, id, req.IncidentID)
			assert.Equal(t, data, req.SignatureData)
			assert.Equal(t, "test-agent", client.UserAgent)
			return finalizationResult(id, models.SignatureImage{Kind: models.SignatureImageInline, Value: data}), nil
		}).Times(1)

	body := map[string]any{"incident_id": id, "signer_name": "J. Silva", "signature_data": data}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/signatures/sign", jsonBody(t, body), env.auth, map[string]string{"User-Agent": "test-agent"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp FinalizationResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, data, resp.Signature.SignatureData)
	assert.Empty(t, resp.Signature.SignatureURL)
}

func TestSignIncident_MissingIncidentID(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.signatures.EXPECT().Sign(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/signatures/sign", bytes.NewBufferString(`{"signer_name":"x"}`), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"incident_id"}, decodeEnvelope(t, w).Errors)
}

func TestDeleteSignature_FinalizedIncident(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()

	env.mocks.signatures.EXPECT().
		Delete(gomock.Any(), id).
		Return(fmt.Errorf("%w: incident already finalized", service.ErrConflict)).
		Times(1)

	w := makeRequest(env.router, http.MethodDelete, "/api/v1/signatures/"+id.String(), nil, env.auth)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListMySignatures_UsesCurrentUser(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.signatures.EXPECT().
		ListByUser(gomock.Any(), env.userID).
		Return([]*models.Signature{{ID: uuid.New()}}, nil).
		Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/signatures/user/me", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	var data []SignatureResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Len(t, data, 1)
}

func TestSignatureStats(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.signatures.EXPECT().
		Stats(gomock.Any()).
		Return(&models.SignatureStats{TotalSignatures: 4, FinalizedIncidents: 3, AverageSigningTimeMinutes: 42}, nil).
		Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/signatures/stats", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	var data SignatureStatsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, 42, data.AverageSigningTimeMinutes)
}

func TestUpdateSignatureRole_RequiresRole(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.signatures.EXPECT().UpdateRole(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(env.router, http.MethodPatch, "/api/v1/signatures/"+uuid.NewString(), bytes.NewBufferString(`{}`), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"signer_role"}, decodeEnvelope(t, w).Errors)
}

func multipartRequest(t *testing.T, field string, files map[string][]byte, incidentID string) (io.Reader, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if incidentID != "" {
		require.NoError(t, writer.WriteField("incident_id", incidentID))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadMedia_Success(t *testing.T) {
	env := newTestHandler(t)
	incidentID := uuid.New()
	png := []byte("\x89PNG\r\n\x1a\n0000")

	env.mocks.media.EXPECT().
		Upload(gomock.Any(), env.userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, incident *uuid.UUID, files []models.UploadFile) ([]*models.Media, error) {
			require.NotNil(t, incident)
			assert.Equal(t, incidentID, *incident)
			require.Len(t, files, 1)
			assert.Equal(t, "photo.png", files[0].Name)
			assert.Equal(t, "image/png", files[0].MimeType)
			return []*models.Media{{ID: uuid.New(), Name: "photo.png", FileType: models.MediaTypeImage}}, nil
		}).Times(1)

	body, contentType := multipartRequest(t, "file", map[string][]byte{"photo.png": png}, incidentID.String())
	w := makeRequest(env.router, http.MethodPost, "/api/v1/media/upload", body, env.auth, map[string]string{"Content-Type": contentType})

	assert.Equal(t, http.StatusCreated, w.Code)
	var data MediaResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, models.MediaTypeImage, data.FileType)
}

func TestUploadMultipleMedia_TooManyFiles(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.media.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	files := map[string][]byte{"a.jpg": []byte("a"), "b.jpg": []byte("b"), "c.jpg": []byte("c")}
	body, contentType := multipartRequest(t, "files", files, "")
	w := makeRequest(env.router, http.MethodPost, "/api/v1/media/upload-multiple", body, env.auth, map[string]string{"Content-Type": contentType})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "at most 2 files per request", decodeEnvelope(t, w).Message)
}

func TestUploadMedia_NoFile(t *testing.T) {
	env := newTestHandler(t)

	body, contentType := multipartRequest(t, "file", nil, "")
	w := makeRequest(env.router, http.MethodPost, "/api/v1/media/upload", body, env.auth, map[string]string{"Content-Type": contentType})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no file provided", decodeEnvelope(t, w).Message)
}

func TestRegisterPhotos_ValidationError(t *testing.T) {
	env := newTestHandler(t)

	env.mocks.media.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := map[string]any{
		"incident_id": uuid.New(),
		"photos":      []map[string]any{{"file_url": "https://res.cloudinary.com/x.jpg", "public_id": "x"}},
	}
	w := makeRequest(env.router, http.MethodPost, "/api/v1/media/register", jsonBody(t, body), env.auth)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"bytes"}, decodeEnvelope(t, w).Errors)
}

func TestDownloadMedia_StoredObject(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	content := "hello"

	env.mocks.media.EXPECT().
		Download(gomock.Any(), id).
		Return(
			&models.Media{ID: id, Name: "note.txt", MimeType: "text/plain", Stored: true},
			&models.FileObject{Body: io.NopCloser(bytes.NewBufferString(content)), ContentType: "text/plain", Size: int64(len(content))},
			nil,
		).Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/media/"+id.String()+"/download", nil, env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "note.txt")
}

func TestDownloadMedia_ExternalRedirects(t *testing.T) {
	env := newTestHandler(t)
	id := uuid.New()
	url := "https://res.cloudinary.com/demo/image/upload/a.jpg"

	env.mocks.media.EXPECT().
		Download(gomock.Any(), id).
		Return(&models.Media{ID: id, FileURL: url}, nil, nil).
		Times(1)

	w := makeRequest(env.router, http.MethodGet, "/api/v1/media/"+id.String()+"/download", nil, env.auth)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, url, w.Header().Get("Location"))
}

func TestGetSignedURL(t *testing.T) {
	t.Run("default lifetime", func(t *testing.T) {
		env := newTestHandler(t)
		id := uuid.New()

		env.mocks.media.EXPECT().SignedURL(gomock.Any(), id, time.Hour).Return("https://s3/signed", nil).Times(1)

		w := makeRequest(env.router, http.MethodGet, "/api/v1/media/signed-url/"+id.String(), nil, env.auth)

		assert.Equal(t, http.StatusOK, w.Code)
		var data SignedURLResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		assert.Equal(t, "https://s3/signed", data.URL)
		assert.Equal(t, int64(3600), data.ExpiresIn)
	})

	t.Run("explicit lifetime", func(t *testing.T) {
		env := newTestHandler(t)
		id := uuid.New()

		env.mocks.media.EXPECT().SignedURL(gomock.Any(), id, 90*time.Second).Return("https://s3/signed", nil).Times(1)

		w := makeRequest(env.router, http.MethodGet, "/api/v1/media/signed-url/"+id.String()+"?expiresIn=90", nil, env.auth)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	for _, raw := range []string{"-5", "0", "abc", "604801", "9223372036854775807", "99999999999999999999"} {
		t.Run("invalid lifetime "+raw, func(t *testing.T) {
			env := newTestHandler(t)

			w := makeRequest(env.router, http.MethodGet, "/api/v1/media/signed-url/"+uuid.NewString()+"?expiresIn="+raw, nil, env.auth)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("maximum lifetime", func(t *testing.T) {
		env := newTestHandler(t)
		id := uuid.New()

		env.mocks.media.EXPECT().SignedURL(gomock.Any(), id, 7*24*time.Hour).Return("https://s3/signed", nil).Times(1)

		w := makeRequest(env.router, http.MethodGet, "/api/v1/media/signed-url/"+id.String()+"?expiresIn=604800", nil, env.auth)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDeleteMultipleMedia(t *testing.T) {
	env := newTestHandler(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	env.mocks.media.EXPECT().DeleteMany(gomock.Any(), ids).Return(int64(2), nil).Times(1)

	w := makeRequest(env.router, http.MethodPost, "/api/v1/media/delete-multiple", jsonBody(t, map[string]any{"ids": ids}), env.auth)

	assert.Equal(t, http.StatusOK, w.Code)
	var data DeleteMediaResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, int64(2), data.Deleted)
}
