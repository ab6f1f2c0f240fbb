package v1

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/shenikar/ignis_incident_service/internal/models"
	"github.com/shenikar/ignis_incident_service/internal/service"
	"github.com/sirupsen/logrus"
)

var phoneDigits = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// Services - набор сервисов, которые обслуживает API
type Services struct {
	Incidents    service.IncidentService
	Finalization service.FinalizationService
	Signatures   service.SignatureService
	Media        service.MediaService
}

type Handler struct {
	incidentService     service.IncidentService
	finalizationService service.FinalizationService
	signatureService    service.SignatureService
	mediaService        service.MediaService
	tokens              TokenVerifier
	logger              *logrus.Logger
	validate            *validator.Validate
	cfg                 *config.Config
}

func NewHandler(services Services, tokens TokenVerifier, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:     services.Incidents,
		finalizationService: services.Finalization,
		signatureService:    services.Signatures,
		mediaService:        services.Media,
		tokens:              tokens,
		logger:              logger,
		validate:            newValidator(),
		cfg:                 cfg,
	}
}

// newValidator настраивает validator: имена полей берутся из json-тегов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
		return phoneDigits.MatchString(phone)
	})
	return v
}

// clientContext собирает IP и user agent клиента
func clientContext(c *gin.Context, platform, screenResolution string) models.ClientContext {
	ip := c.ClientIP()
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			ip = first
		}
	}
	return models.ClientContext{
		IPAddress:        ip,
		UserAgent:        c.Request.UserAgent(),
		Platform:         strings.TrimSpace(platform),
		ScreenResolution: strings.TrimSpace(screenResolution),
	}
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondFail(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}

// requireUser возвращает id текущего пользователя или отвечает 401
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "unauthenticated")
		return uuid.Nil, false
	}
	return userID, true
}

// @Summary Create a new incident
// @Description Create a new incident in in_progress status. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} Envelope{data=IncidentResponse}
// @Failure 400 {object} Envelope "Invalid request body or validation error"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	model := DTOToIncidentModel(input, userID)
	if err := h.incidentService.CreateIncident(c.Request.Context(), model); err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusCreated, "incident created", ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get all incidents as a summary projection. Requires bearer token.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=[]IncidentSummaryResponse}
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.incidentService.ListIncidents(c.Request.Context())
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "", SummariesToResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires bearer token.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} Envelope{data=IncidentResponse}
// @Failure 400 {object} Envelope "Invalid incident ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "", ModelToIncidentResponse(incident))
}

// @Summary Update an existing incident
// @Description Update intake fields of an in_progress incident. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} Envelope{data=IncidentResponse}
// @Failure 400 {object} Envelope "Invalid incident ID or request body"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 409 {object} Envelope "Incident is not in progress"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents/{id} [patch]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	incident, err := h.incidentService.UpdateIncident(c.Request.Context(), id, DTOToIncidentUpdate(input))
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "incident updated", ModelToIncidentResponse(incident))
}

// @Summary Cancel an incident
// @Description Cancel an in_progress incident with an optional reason. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param body body CancelIncidentRequest false "Cancel reason"
// @Success 200 {object} Envelope{data=IncidentResponse}
// @Failure 400 {object} Envelope "Invalid incident ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 409 {object} Envelope "Incident is not in progress"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents/{id}/cancel [patch]
func (h *Handler) cancelIncident(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "cancelIncident").WithField("id", id)

	var input CancelIncidentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			log.WithError(err).Warn("Failed to bind JSON")
			respondFail(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	incident, err := h.incidentService.CancelIncident(c.Request.Context(), id, strings.TrimSpace(input.Reason))
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "incident canceled", ModelToIncidentResponse(incident))
}

// @Summary Finalize an incident
// @Description Record the final report, create the signature, link photos and move the incident to finalized in one transaction. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param body body FinalizeIncidentRequest true "Final report and signature"
// @Success 200 {object} Envelope{data=FinalizationResponse}
// @Failure 400 {object} Envelope "Invalid request or missing fields"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 409 {object} Envelope "Incident is not in progress or already signed"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents/{id}/finalize [patch]
func (h *Handler) finalizeIncident(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "finalizeIncident").WithField("id", id)

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input FinalizeIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	result, err := h.finalizationService.Finalize(
		c.Request.Context(),
		id,
		userID,
		DTOToFinalizePayload(input),
		clientContext(c, input.Platform, input.ScreenResolution),
	)
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "incident finalized", ModelToFinalizationResponse(result))
}

// @Summary Get finalization details
// @Description Get an incident together with its signature, linked photos and completeness flags. Requires bearer token.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} Envelope{data=FinalizationDetailsResponse}
// @Failure 400 {object} Envelope "Invalid incident ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /incidents/{id}/finalization-details [get]
func (h *Handler) getFinalizationDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getFinalizationDetails").WithField("id", id)

	details, err := h.finalizationService.GetFinalizationDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusOK, "", ModelToFinalizationDetailsResponse(details))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} Envelope "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	respondData(c, http.StatusOK, "ok", gin.H{"status": "ok"})
}
