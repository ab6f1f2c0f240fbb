package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/sirupsen/logrus"
)

const uploadFolder = "uploads"

var videoFormats = map[string]bool{"mp4": true, "mov": true, "avi": true}

// MediaRepository определяет контракт для работы с бд медиа
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	List(ctx context.Context) ([]*models.Media, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Media, error)
	ListByIncidentID(ctx context.Context, incidentID uuid.UUID) ([]*models.Media, error)
	LinkToIncident(ctx context.Context, incidentID uuid.UUID, ids []uuid.UUID) (int64, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// FileStorage определяет контракт объектного хранилища файлов
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Download(ctx context.Context, key string) (*models.FileObject, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaService определяет контракт для работы с медиафайлами
type MediaService interface {
	Upload(ctx context.Context, actorID uuid.UUID, incidentID *uuid.UUID, files []models.UploadFile) ([]*models.Media, error)
	Register(ctx context.Context, actorID uuid.UUID, incidentID uuid.UUID, photos []models.RegisteredPhoto) ([]*models.Media, error)
	List(ctx context.Context) ([]*models.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Media, error)
	Update(ctx context.Context, id uuid.UUID, update models.MediaUpdate) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	Download(ctx context.Context, id uuid.UUID) (*models.Media, *models.FileObject, error)
	SignedURL(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error)
}

type mediaService struct {
	media     MediaRepository
	incidents IncidentRepository
	storage   FileStorage
	logger    *logrus.Logger
	now       func() time.Time
}

func NewMediaService(media MediaRepository, incidents IncidentRepository, storage FileStorage, logger *logrus.Logger) MediaService {
	return &mediaService{
		media:     media,
		incidents: incidents,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload загружает файлы в хранилище и создает записи медиа.
// Загрузка нескольких файлов выполняется целиком: при ошибке на любом файле
// удаляются объекты и записи, созданные для предыдущих файлов запроса.
func (s *mediaService) Upload(ctx context.Context, actorID uuid.UUID, incidentID *uuid.UUID, files []models.UploadFile) ([]*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "media",
		"method":  "Upload",
		"files":   len(files),
	})
	log.Info("Attempting to upload media")

	if len(files) == 0 {
		return nil, newValidationError("no files provided", "files")
	}
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, newValidationError("empty file", "files")
		}
	}
	if err := s.ensureIncident(ctx, incidentID); err != nil {
		return nil, s.logFailure(log, err, "Failed to resolve incident")
	}

	uploaded := make([]*models.Media, 0, len(files))
	for _, f := range files {
		now := s.now().UTC()
		key := objectKey(uploadFolder, f.Name, now)

		fileURL, err := s.storage.Upload(ctx, key, f.MimeType, f.Data)
		if err != nil {
			log.WithError(err).Error("Failed to upload file to storage")
			s.undoUploads(ctx, log, uploaded)
			return nil, fmt.Errorf("service: could not upload file: %w", err)
		}

		media := &models.Media{
			IncidentID: incidentID,
			Name:       f.Name,
			FileType:   models.MediaTypeFromMIME(f.MimeType),
			FilePath:   key,
			FileURL:    fileURL,
			Size:       int64(len(f.Data)),
			MimeType:   f.MimeType,
			Stored:     true,
			UploadedBy: uploaderOf(actorID),
			CapturedAt: now,
		}
		if err := s.media.Create(ctx, media); err != nil {
			if delErr := s.storage.Delete(ctx, key); delErr != nil {
				log.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned object")
			}
			log.WithError(err).Error("Failed to create media in repository")
			s.undoUploads(ctx, log, uploaded)
			return nil, fmt.Errorf("service: could not create media: %w", err)
		}
		uploaded = append(uploaded, media)
	}

	log.WithField("count", len(uploaded)).Info("Media uploaded successfully")
	return uploaded, nil
}

// undoUploads удаляет записи и объекты уже обработанных файлов запроса
func (s *mediaService) undoUploads(ctx context.Context, log *logrus.Entry, uploaded []*models.Media) {
	if len(uploaded) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(uploaded))
	for _, m := range uploaded {
		ids = append(ids, m.ID)
	}
	if _, err := s.media.DeleteMany(ctx, ids); err != nil {
		log.WithError(err).Warn("Failed to remove media records of partial upload")
	}
	for _, m := range uploaded {
		if err := s.storage.Delete(ctx, m.FilePath); err != nil {
			log.WithError(err).WithField("key", m.FilePath).Warn("Failed to remove object of partial upload")
		}
	}
}

// Register сохраняет метаданные фото, уже загруженных во внешнее хранилище
func (s *mediaService) Register(ctx context.Context, actorID uuid.UUID, incidentID uuid.UUID, photos []models.RegisteredPhoto) ([]*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "media",
		"method":      "Register",
		"incident_id": incidentID,
		"photos":      len(photos),
	})
	log.Info("Registering externally uploaded photos")

	if incidentID == uuid.Nil {
		return nil, newValidationError("incident id is required", "incident_id")
	}
	if len(photos) == 0 {
		return nil, newValidationError("photos must be a non-empty list", "photos")
	}
	for _, p := range photos {
		if p.FileURL == "" || p.PublicID == "" || p.Bytes <= 0 {
			return nil, newValidationError("each photo must have file_url, public_id and bytes", "photos")
		}
	}
	if err := s.ensureIncident(ctx, &incidentID); err != nil {
		return nil, s.logFailure(log, err, "Failed to resolve incident")
	}

	registered := make([]*models.Media, 0, len(photos))
	for _, p := range photos {
		media := registeredMedia(p, incidentID, uploaderOf(actorID), s.now().UTC())
		if err := s.media.Create(ctx, media); err != nil {
			log.WithError(err).Error("Failed to create media in repository")
			return nil, fmt.Errorf("service: could not register media: %w", err)
		}
		registered = append(registered, media)
	}

	log.WithField("count", len(registered)).Info("Photos registered successfully")
	return registered, nil
}

func (s *mediaService) List(ctx context.Context) ([]*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "media",
		"method":  "List",
	})

	media, err := s.media.List(ctx)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to list media")
	}
	return media, nil
}

func (s *mediaService) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "GetByID",
		"media_id": id,
	})

	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to get media")
	}
	return media, nil
}

func (s *mediaService) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "media",
		"method":      "ListByIncident",
		"incident_id": incidentID,
	})

	media, err := s.media.ListByIncidentID(ctx, incidentID)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to list incident media")
	}
	return media, nil
}

// Update меняет отображаемое имя и метаданные медиа
func (s *mediaService) Update(ctx context.Context, id uuid.UUID, update models.MediaUpdate) (*models.Media, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "Update",
		"media_id": id,
	})
	log.Info("Attempting to update media")

	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, s.logFailure(log, err, "Failed to get media")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, newValidationError("name must not be empty", "name")
		}
		media.Name = name
	}
	if update.Metadata != nil {
		media.Metadata = update.Metadata
	}
	if err := s.media.Update(ctx, media); err != nil {
		return nil, s.logFailure(log, err, "Failed to update media")
	}

	log.Info("Media updated successfully")
	return media, nil
}

// Delete удаляет запись медиа и объект в хранилище
func (s *mediaService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "Delete",
		"media_id": id,
	})
	log.Info("Attempting to delete media")

	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return s.logFailure(log, err, "Failed to get media")
	}
	if media.Stored && media.FilePath != "" {
		if err := s.storage.Delete(ctx, media.FilePath); err != nil {
			log.WithError(err).Error("Failed to delete object from storage")
			return fmt.Errorf("service: could not delete stored file: %w", err)
		}
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return s.logFailure(log, err, "Failed to delete media")
	}

	log.Info("Media deleted successfully")
	return nil
}

// DeleteMany удаляет несколько медиа; отсутствующие ID пропускаются
func (s *mediaService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "media",
		"method":  "DeleteMany",
		"ids":     len(ids),
	})
	log.Info("Attempting to delete multiple media")

	if len(ids) == 0 {
		return 0, newValidationError("ids must be a non-empty list", "ids")
	}

	media, err := s.media.ListByIDs(ctx, ids)
	if err != nil {
		return 0, s.logFailure(log, err, "Failed to load media")
	}
	for _, m := range media {
		if !m.Stored || m.FilePath == "" {
			continue
		}
		if err := s.storage.Delete(ctx, m.FilePath); err != nil {
			log.WithError(err).Error("Failed to delete object from storage")
			return 0, fmt.Errorf("service: could not delete stored file: %w", err)
		}
	}

	deleted, err := s.media.DeleteMany(ctx, ids)
	if err != nil {
		return 0, s.logFailure(log, err, "Failed to delete media")
	}

	log.WithField("deleted", deleted).Info("Media deleted successfully")
	return deleted, nil
}

// Download возвращает содержимое файла из хранилища.
// Для внешних медиа объект равен nil: клиент использует FileURL.
func (s *mediaService) Download(ctx context.Context, id uuid.UUID) (*models.Media, *models.FileObject, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "Download",
		"media_id": id,
	})

	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, nil, s.logFailure(log, err, "Failed to get media")
	}
	if !media.Stored {
		return media, nil, nil
	}

	object, err := s.storage.Download(ctx, media.FilePath)
	if err != nil {
		return nil, nil, s.logFailure(log, err, "Failed to download file")
	}
	return media, object, nil
}

// SignedURL возвращает временную ссылку на файл
func (s *mediaService) SignedURL(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "media",
		"method":   "SignedURL",
		"media_id": id,
	})

	if ttl <= 0 {
		return "", newValidationError("expiration must be positive", "expires_in")
	}

	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return "", s.logFailure(log, err, "Failed to get media")
	}
	if !media.Stored {
		return media.FileURL, nil
	}

	signed, err := s.storage.PresignGet(ctx, media.FilePath, ttl)
	if err != nil {
		return "", s.logFailure(log, err, "Failed to presign url")
	}
	return signed, nil
}

func (s *mediaService) ensureIncident(ctx context.Context, incidentID *uuid.UUID) error {
	if incidentID == nil {
		return nil
	}
	_, err := s.incidents.GetByID(ctx, *incidentID)
	return err
}

func (s *mediaService) logFailure(log *logrus.Entry, err error, msg string) error {
	if IsDomainError(err) {
		log.WithError(err).Warn(msg)
		return err
	}
	log.WithError(err).Error(msg)
	return fmt.Errorf("service: %w", err)
}

// objectKey строит ключ объекта вида <folder>/<unixmillis>-<random6>-<name>
func objectKey(folder, name string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s/%d-%s-%s", folder, at.UnixMilli(), random, base)
}

func registeredMedia(p models.RegisteredPhoto, incidentID uuid.UUID, uploadedBy *uuid.UUID, now time.Time) *models.Media {
	format := strings.ToLower(strings.TrimSpace(p.Format))
	kind := models.MediaTypeImage
	if videoFormats[format] {
		kind = models.MediaTypeVideo
	}
	subtype := format
	if subtype == "" {
		subtype = "jpeg"
	}

	name := p.PublicID
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "photo"
	}

	metadata := map[string]any{"providerPublicId": p.PublicID}
	if p.Width != nil {
		metadata["width"] = *p.Width
	}
	if p.Height != nil {
		metadata["height"] = *p.Height
	}

	id := incidentID
	return &models.Media{
		IncidentID: &id,
		Name:       name,
		FileType:   kind,
		FilePath:   p.FileURL,
		FileURL:    p.FileURL,
		Size:       p.Bytes,
		MimeType:   kind + "/" + subtype,
		Stored:     false,
		UploadedBy: uploadedBy,
		CapturedAt: now,
		Metadata:   metadata,
	}
}

func uploaderOf(actorID uuid.UUID) *uuid.UUID {
	if actorID == uuid.Nil {
		return nil
	}
	return &actorID
}
