package v1

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/sirupsen/logrus"
)

// maxSignedURLSeconds - предельный срок действия presigned-ссылки S3 (7 суток)
const maxSignedURLSeconds = 7 * 24 * 60 * 60

// readUploadFile читает файл формы с ограничением размера
func (h *Handler) readUploadFile(fh *multipart.FileHeader) (models.UploadFile, error) {
	maxBytes := int64(h.cfg.MaxUploadSizeMB) << 20
	if maxBytes > 0 && fh.Size > maxBytes {
		return models.UploadFile{}, fmt.Errorf("file %s exceeds %d MB", fh.Filename, h.cfg.MaxUploadSizeMB)
	}

	f, err := fh.Open()
	if err != nil {
		return models.UploadFile{}, fmt.Errorf("could not open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.UploadFile{}, fmt.Errorf("could not read %s: %w", fh.Filename, err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	return models.UploadFile{Name: fh.Filename, MimeType: mimeType, Data: data}, nil
}

// uploadIncidentID читает необязательный incident_id из формы
func uploadIncidentID(c *gin.Context) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.PostForm("incident_id"))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid incident ID")
		return nil, false
	}
	return &id, true
}

// upload загружает файлы формы; при ошибке ответ уже записан
func (h *Handler) upload(c *gin.Context, log *logrus.Entry, headers []*multipart.FileHeader) ([]*models.Media, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	incidentID, ok := uploadIncidentID(c)
	if !ok {
		return nil, false
	}

	if len(headers) == 0 {
		respondFail(c, http.StatusBadRequest, "no file provided")
		return nil, false
	}
	if h.cfg.MaxUploadFiles > 0 && len(headers) > h.cfg.MaxUploadFiles {
		respondFail(c, http.StatusBadRequest, fmt.Sprintf("at most %d files per request", h.cfg.MaxUploadFiles))
		return nil, false
	}

	files := make([]models.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, err := h.readUploadFile(fh)
		if err != nil {
			log.WithError(err).Warn("Rejected uploaded file")
			respondFail(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		files = append(files, file)
	}

	media, err := h.mediaService.Upload(c.Request.Context(), userID, incidentID, files)
	if err != nil {
		respondError(c, log, err, "incident")
		return nil, false
	}
	return media, true
}

// @Summary Upload a file
// @Description Upload one file to object storage, optionally linked to an incident. Requires bearer token.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param incident_id formData string false "Incident ID"
// @Success 201 {object} Envelope{data=MediaResponse}
// @Failure 400 {object} Envelope "No file or invalid input"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/upload [post]
func (h *Handler) uploadMedia(c *gin.Context) {
	log := h.logger.WithField("method", "uploadMedia")

	fh, err := c.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("File missing from form")
		respondFail(c, http.StatusBadRequest, "no file provided")
		return
	}

	media, ok := h.upload(c, log, []*multipart.FileHeader{fh})
	if !ok {
		return
	}
	respondData(c, http.StatusCreated, "file uploaded", ModelToMediaResponse(media[0]))
}

// @Summary Upload several files
// @Description All files are stored or none: a failure removes files already stored by the request
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files"
// @Param incident_id formData string false "Incident ID"
// @Success 201 {object} Envelope{data=[]MediaResponse}
// @Failure 400 {object} Envelope "No files or invalid input"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/upload-multiple [post]
func (h *Handler) uploadMultipleMedia(c *gin.Context) {
	log := h.logger.WithField("method", "uploadMultipleMedia")

	form, err := c.MultipartForm()
	if err != nil {
		log.WithError(err).Warn("Failed to parse multipart form")
		respondFail(c, http.StatusBadRequest, "no files provided")
		return
	}

	media, ok := h.upload(c, log, form.File["files"])
	if !ok {
		return
	}
	respondData(c, http.StatusCreated, "files uploaded", ModelsToMediaResponses(media))
}

// @Summary Register externally uploaded photos
// @Description Store metadata of photos already uploaded to the media host. Requires bearer token.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterPhotosRequest true "Photos"
// @Success 201 {object} Envelope{data=[]MediaResponse}
// @Failure 400 {object} Envelope "Invalid request"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/register [post]
func (h *Handler) registerPhotos(c *gin.Context) {
	log := h.logger.WithField("method", "registerPhotos")

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input RegisterPhotosRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	photos := make([]models.RegisteredPhoto, len(input.Photos))
	for i, p := range input.Photos {
		photos[i] = photoToModel(p)
	}

	media, err := h.mediaService.Register(c.Request.Context(), userID, input.IncidentID, photos)
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusCreated, "photos registered", ModelsToMediaResponses(media))
}

// @Summary Register one externally uploaded photo
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterPhotoRequest true "Photo"
// @Success 201 {object} Envelope{data=MediaResponse}
// @Failure 400 {object} Envelope "Invalid request"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/register-single [post]
func (h *Handler) registerPhoto(c *gin.Context) {
	log := h.logger.WithField("method", "registerPhoto")

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input RegisterPhotoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	media, err := h.mediaService.Register(c.Request.Context(), userID, input.IncidentID, []models.RegisteredPhoto{photoToModel(input.Photo)})
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusCreated, "photo registered", ModelToMediaResponse(media[0]))
}

// @Summary List media
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=[]MediaResponse}
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media [get]
func (h *Handler) listMedia(c *gin.Context) {
	log := h.logger.WithField("method", "listMedia")

	media, err := h.mediaService.List(c.Request.Context())
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "", ModelsToMediaResponses(media))
}

// @Summary Get media by ID
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 200 {object} Envelope{data=MediaResponse}
// @Failure 400 {object} Envelope "Invalid media ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Media not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/{id} [get]
func (h *Handler) getMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid media ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getMedia").WithField("id", id)

	media, err := h.mediaService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "", ModelToMediaResponse(media))
}

// @Summary List media of an incident
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} Envelope{data=[]MediaResponse}
// @Failure 400 {object} Envelope "Invalid incident ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/incident/{id} [get]
func (h *Handler) listIncidentMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listIncidentMedia").WithField("incident_id", id)

	media, err := h.mediaService.ListByIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "", ModelsToMediaResponses(media))
}

// @Summary Update media
// @Description Change the name or metadata of a media record. Requires bearer token.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Param body body UpdateMediaRequest true "Fields to change"
// @Success 200 {object} Envelope{data=MediaResponse}
// @Failure 400 {object} Envelope "Invalid request"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Media not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/{id} [patch]
func (h *Handler) updateMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid media ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateMedia").WithField("id", id)

	var input UpdateMediaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	media, err := h.mediaService.Update(c.Request.Context(), id, models.MediaUpdate{Name: input.Name, Metadata: input.Metadata})
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "media updated", ModelToMediaResponse(media))
}

// @Summary Delete media
// @Description Delete a media record and its stored object. Requires bearer token.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope "Invalid media ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Media not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/{id} [delete]
func (h *Handler) deleteMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid media ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteMedia").WithField("id", id)

	if err := h.mediaService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "media deleted", nil)
}

// @Summary Delete several media
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteMediaRequest true "Media IDs"
// @Success 200 {object} Envelope{data=DeleteMediaResponse}
// @Failure 400 {object} Envelope "Invalid request"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/delete-multiple [post]
func (h *Handler) deleteMultipleMedia(c *gin.Context) {
	log := h.logger.WithField("method", "deleteMultipleMedia")

	var input DeleteMediaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	deleted, err := h.mediaService.DeleteMany(c.Request.Context(), input.IDs)
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "media deleted", DeleteMediaResponse{Deleted: deleted})
}

// @Summary Download media
// @Description Stream a stored file. Externally hosted media redirects to its URL. Requires bearer token.
// @Tags Media
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Success 200 {file} file
// @Success 302 "Redirect to external URL"
// @Failure 400 {object} Envelope "Invalid media ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Media not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/{id}/download [get]
func (h *Handler) downloadMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid media ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "downloadMedia").WithField("id", id)

	media, object, err := h.mediaService.Download(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	if object == nil {
		c.Redirect(http.StatusFound, media.FileURL)
		return
	}
	defer object.Body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = media.MimeType
	}
	c.DataFromReader(http.StatusOK, object.Size, contentType, object.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename=%q`, media.Name),
	})
}

// @Summary Get a temporary URL
// @Description Presigned URL for a stored file. Externally hosted media returns its URL. Requires bearer token.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Param expiresIn query int false "Lifetime in seconds, at most 604800"
// @Success 200 {object} Envelope{data=SignedURLResponse}
// @Failure 400 {object} Envelope "Invalid media ID or lifetime"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Media not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /media/signed-url/{id} [get]
func (h *Handler) getSignedURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid media ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSignedURL").WithField("id", id)

	ttl := h.cfg.SignedURLTTL
	if raw := c.Query("expiresIn"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 || seconds > maxSignedURLSeconds {
			respondFail(c, http.StatusBadRequest, fmt.Sprintf("expiresIn must be between 1 and %d seconds", maxSignedURLSeconds))
			return
		}
		ttl = time.Duration(seconds) * time.Second
	}

	url, err := h.mediaService.SignedURL(c.Request.Context(), id, ttl)
	if err != nil {
		respondError(c, log, err, "media")
		return
	}
	respondData(c, http.StatusOK, "", SignedURLResponse{URL: url, ExpiresIn: int64(ttl / time.Second)})
}
