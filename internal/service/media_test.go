package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mediaMocks struct {
	media     *mocks.MockMediaRepository
	incidents *mocks.MockIncidentRepository
	storage   *mocks.MockFileStorage
}

func newTestMediaService(t *testing.T) (*mediaService, mediaMocks) {
	ctrl := gomock.NewController(t)
	m := mediaMocks{
		media:     mocks.NewMockMediaRepository(ctrl),
		incidents: mocks.NewMockIncidentRepository(ctrl),
		storage:   mocks.NewMockFileStorage(ctrl),
	}
	service := NewMediaService(m.media, m.incidents, m.storage, newTestLogger()).(*mediaService)
	service.now = func() time.Time { return fixedNow }
	return service, m
}

var objectKeyPattern = regexp.MustCompile(`^uploads/\d+-[0-9a-f]{6}-foto\.jpg$`)

func TestUploadMedia_Success(t *testing.T) {
	// Подготовка
	service, m := newTestMediaService(t)
	ctx := context.Background()
	actorID, incidentID := uuid.New(), uuid.New()
	files := []models.UploadFile{
		{Name: "foto.jpg", MimeType: "image/jpeg", Data: []byte("jpeg-bytes")},
		{Name: "laudo.pdf", MimeType: "application/pdf", Data: []byte("%PDF")},
	}

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, incidentID).Return(inProgressIncident(incidentID), nil)
	m.storage.EXPECT().
		Upload(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, _ []byte) (string, error) {
			return "https://storage.local/ignis-media/" + key, nil
		}).
		Times(2)
	m.media.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)

	// Действие
	uploaded, err := service.Upload(ctx, actorID, &incidentID, files)

	// Проверки
	require.NoError(t, err)
	require.Len(t, uploaded, 2)
	assert.Equal(t, models.MediaTypeImage, uploaded[0].FileType)
	assert.Equal(t, models.MediaTypeDocument, uploaded[1].FileType)
	assert.Regexp(t, objectKeyPattern, uploaded[0].FilePath)
	assert.True(t, strings.HasSuffix(uploaded[0].FileURL, uploaded[0].FilePath))
	assert.Equal(t, int64(len("jpeg-bytes")), uploaded[0].Size)
	assert.True(t, uploaded[0].Stored)
	assert.Equal(t, incidentID, *uploaded[0].IncidentID)
	assert.Equal(t, actorID, *uploaded[0].UploadedBy)
	assert.Equal(t, fixedNow, uploaded[0].CapturedAt)
}

func TestUploadMedia_WithoutIncident(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()

	m.storage.EXPECT().Upload(ctx, gomock.Any(), "video/mp4", gomock.Any()).Return("https://storage.local/x", nil)
	m.media.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	uploaded, err := service.Upload(ctx, uuid.New(), nil, []models.UploadFile{{Name: "v.mp4", MimeType: "video/mp4", Data: []byte{1}}})

	require.NoError(t, err)
	assert.Nil(t, uploaded[0].IncidentID)
	assert.Equal(t, models.MediaTypeVideo, uploaded[0].FileType)
}

func TestUploadMedia_UnknownIncident(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	m.incidents.EXPECT().GetByID(ctx, incidentID).Return(nil, ErrNotFound)
	m.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := service.Upload(ctx, uuid.New(), &incidentID, []models.UploadFile{{Name: "a.png", Data: []byte{1}}})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadMedia_NoFiles(t *testing.T) {
	service, _ := newTestMediaService(t)

	_, err := service.Upload(context.Background(), uuid.New(), nil, nil)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadMedia_RemovesObjectWhenRecordFails(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	var uploadedKey string

	m.storage.EXPECT().
		Upload(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, _ []byte) (string, error) {
			uploadedKey = key
			return "https://storage.local/" + key, nil
		})
	m.media.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))
	m.storage.EXPECT().
		Delete(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			assert.Equal(t, uploadedKey, key)
			return nil
		})

	_, err := service.Upload(ctx, uuid.New(), nil, []models.UploadFile{{Name: "foto.jpg", MimeType: "image/jpeg", Data: []byte{1}}})

	require.Error(t, err)
	assert.False(t, IsDomainError(err))
}

func TestUploadMedia_FailureUndoesEarlierFiles(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	firstID := uuid.New()
	var keys []string
	files := []models.UploadFile{
		{Name: "foto.jpg", MimeType: "image/jpeg", Data: []byte{1}},
		{Name: "video.mp4", MimeType: "video/mp4", Data: []byte{2}},
	}

	gomock.InOrder(
		m.storage.EXPECT().
			Upload(ctx, gomock.Any(), "image/jpeg", gomock.Any()).
			DoAndReturn(func(_ context.Context, key, _ string, _ []byte) (string, error) {
				keys = append(keys, key)
				return "https://storage.local/" + key, nil
			}),
		m.media.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, media *models.Media) error {
				media.ID = firstID
				return nil
			}),
		m.storage.EXPECT().
			Upload(ctx, gomock.Any(), "video/mp4", gomock.Any()).
			Return("", errors.New("bucket unavailable")),
		m.media.EXPECT().DeleteMany(ctx, []uuid.UUID{firstID}).Return(int64(1), nil),
		m.storage.EXPECT().
			Delete(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, key string) error {
				require.Len(t, keys, 1)
				assert.Equal(t, keys[0], key)
				return nil
			}),
	)

	uploaded, err := service.Upload(ctx, uuid.New(), nil, files)

	require.Error(t, err)
	assert.Nil(t, uploaded)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestRegisterPhotos_Success(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	width, height := 1080, 1920
	photos := []models.RegisteredPhoto{
		{FileURL: "https://res.cloudinary.com/ignis/a.jpg", PublicID: "ignis/ocorrencias/a", Format: "JPG", Width: &width, Height: &height, Bytes: 2048},
		{FileURL: "https://res.cloudinary.com/ignis/b.mov", PublicID: "ignis/ocorrencias/b", Format: "mov", Bytes: 4096},
		{FileURL: "https://res.cloudinary.com/ignis/c", PublicID: "c", Bytes: 10},
	}

	m.incidents.EXPECT().GetByID(ctx, incidentID).Return(inProgressIncident(incidentID), nil)
	m.media.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(3)

	registered, err := service.Register(ctx, uuid.New(), incidentID, photos)

	require.NoError(t, err)
	require.Len(t, registered, 3)

	assert.Equal(t, "a", registered[0].Name)
	assert.Equal(t, models.MediaTypeImage, registered[0].FileType)
	assert.Equal(t, "image/jpg", registered[0].MimeType)
	assert.Equal(t, "ignis/ocorrencias/a", registered[0].Metadata["providerPublicId"])
	assert.Equal(t, 1080, registered[0].Metadata["width"])
	assert.False(t, registered[0].Stored)

	assert.Equal(t, models.MediaTypeVideo, registered[1].FileType)
	assert.Equal(t, "video/mov", registered[1].MimeType)
	assert.NotContains(t, registered[1].Metadata, "width")

	assert.Equal(t, "image/jpeg", registered[2].MimeType)
	assert.Equal(t, incidentID, *registered[2].IncidentID)
}

func TestRegisterPhotos_Validation(t *testing.T) {
	tests := []struct {
		name       string
		incidentID uuid.UUID
		photos     []models.RegisteredPhoto
	}{
		{name: "missing incident", incidentID: uuid.Nil, photos: []models.RegisteredPhoto{{FileURL: "u", PublicID: "p", Bytes: 1}}},
		{name: "empty list", incidentID: uuid.New(), photos: nil},
		{name: "missing bytes", incidentID: uuid.New(), photos: []models.RegisteredPhoto{{FileURL: "u", PublicID: "p"}}},
		{name: "missing public id", incidentID: uuid.New(), photos: []models.RegisteredPhoto{{FileURL: "u", Bytes: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestMediaService(t)

			_, err := service.Register(context.Background(), uuid.New(), tt.incidentID, tt.photos)

			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateMedia(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()
	name := "fachada.jpg"

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, Name: "IMG_0001.jpg"}, nil)
	m.media.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	updated, err := service.Update(ctx, id, models.MediaUpdate{Name: &name, Metadata: map[string]any{"floor": 2}})

	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 2, updated.Metadata["floor"])
}

func TestUpdateMedia_EmptyName(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()
	name := " "

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, Name: "a"}, nil)

	_, err := service.Update(ctx, id, models.MediaUpdate{Name: &name})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteMedia_RemovesStoredObject(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()

	gomock.InOrder(
		m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, FilePath: "uploads/1-abcdef-a.jpg", Stored: true}, nil),
		m.storage.EXPECT().Delete(ctx, "uploads/1-abcdef-a.jpg").Return(nil),
		m.media.EXPECT().Delete(ctx, id).Return(nil),
	)

	require.NoError(t, service.Delete(ctx, id))
}

func TestDeleteMedia_StorageFailureKeepsRecord(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, FilePath: "k", Stored: true}, nil)
	m.storage.EXPECT().Delete(ctx, "k").Return(errors.New("access denied"))
	m.media.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	assert.Error(t, service.Delete(ctx, id))
}

func TestDeleteManyMedia_SkipsExternalFiles(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	stored, external := uuid.New(), uuid.New()
	ids := []uuid.UUID{stored, external}

	m.media.EXPECT().ListByIDs(ctx, ids).Return([]*models.Media{
		{ID: stored, FilePath: "uploads/s.jpg", Stored: true},
		{ID: external, FilePath: "https://res.cloudinary.com/x.jpg", Stored: false},
	}, nil)
	m.storage.EXPECT().Delete(ctx, "uploads/s.jpg").Return(nil)
	m.media.EXPECT().DeleteMany(ctx, ids).Return(int64(2), nil)

	deleted, err := service.DeleteMany(ctx, ids)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestDownloadMedia(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()
	object := &models.FileObject{Body: io.NopCloser(strings.NewReader("data")), ContentType: "image/png", Size: 4}

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, FilePath: "uploads/a.png", Stored: true}, nil)
	m.storage.EXPECT().Download(ctx, "uploads/a.png").Return(object, nil)

	media, got, err := service.Download(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, media.ID)
	assert.Equal(t, object, got)
}

func TestDownloadMedia_ExternalHasNoObject(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, FileURL: "https://res.cloudinary.com/a.jpg"}, nil)

	media, object, err := service.Download(ctx, id)

	require.NoError(t, err)
	assert.Nil(t, object)
	assert.Equal(t, "https://res.cloudinary.com/a.jpg", media.FileURL)
}

func TestSignedURL(t *testing.T) {
	service, m := newTestMediaService(t)
	ctx := context.Background()
	id := uuid.New()

	m.media.EXPECT().GetByID(ctx, id).Return(&models.Media{ID: id, FilePath: "uploads/a.png", Stored: true}, nil)
	m.storage.EXPECT().PresignGet(ctx, "uploads/a.png", time.Hour).Return("https://storage.local/a.png?X-Amz-Signature=abc", nil)

	url, err := service.SignedURL(ctx, id, time.Hour)

	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestSignedURL_InvalidTTL(t *testing.T) {
	service, _ := newTestMediaService(t)

	_, err := service.SignedURL(context.Background(), uuid.New(), 0)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1717255800000)

	key := objectKey("uploads", `C:\fotos\foto.jpg`, at)
	assert.Regexp(t, `^uploads/1717255800000-[0-9a-f]{6}-foto\.jpg$`, key)

	key = objectKey("signatures", "", at)
	assert.Regexp(t, `^signatures/1717255800000-[0-9a-f]{6}-file$`, key)
}
