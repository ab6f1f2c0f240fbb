package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/ignis_incident_service/internal/models"
)

// @Summary Sign an incident
// @Description Stand-alone signing entry point. Creates the signature and moves the incident to finalized. Requires bearer token.
// @Tags Signatures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SignIncidentRequest true "Signature"
// @Success 201 {object} Envelope{data=FinalizationResponse}
// @Failure 400 {object} Envelope "Invalid request or signature"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Incident not found"
// @Failure 409 {object} Envelope "Incident is not in progress or already signed"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/sign [post]
func (h *Handler) signIncident(c *gin.Context) {
	log := h.logger.WithField("method", "signIncident")

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input SignIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	req := models.SignRequest{
		IncidentID:    input.IncidentID,
		SignerName:    input.SignerName,
		SignerRole:    input.SignerRole,
		SignatureData: input.SignatureData,
	}
	result, err := h.signatureService.Sign(c.Request.Context(), userID, req, clientContext(c, input.Platform, input.ScreenResolution))
	if err != nil {
		respondError(c, log, err, "incident")
		return
	}
	respondData(c, http.StatusCreated, "incident signed", ModelToFinalizationResponse(result))
}

// @Summary Get signature by incident
// @Description Get the signature of an incident. Requires bearer token.
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} Envelope{data=SignatureResponse}
// @Failure 400 {object} Envelope "Invalid incident ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Signature not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/occurrence/{id} [get]
func (h *Handler) getSignatureByIncident(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid incident ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSignatureByIncident").WithField("incident_id", id)

	signature, err := h.signatureService.GetByIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "", ModelToSignatureResponse(signature))
}

// @Summary Get signature by ID
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Param id path string true "Signature ID"
// @Success 200 {object} Envelope{data=SignatureResponse}
// @Failure 400 {object} Envelope "Invalid signature ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Signature not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/{id} [get]
func (h *Handler) getSignature(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid signature ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSignature").WithField("id", id)

	signature, err := h.signatureService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "", ModelToSignatureResponse(signature))
}

// @Summary List my signatures
// @Description Signatures of incidents finalized by the current user. Requires bearer token.
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=[]SignatureResponse}
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/user/me [get]
func (h *Handler) listMySignatures(c *gin.Context) {
	log := h.logger.WithField("method", "listMySignatures")

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	signatures, err := h.signatureService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "", ModelsToSignatureResponses(signatures))
}

// @Summary Correct signer role
// @Description Only the signer role can be changed after signing. Requires bearer token.
// @Tags Signatures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Signature ID"
// @Param body body UpdateSignatureRoleRequest true "New role"
// @Success 200 {object} Envelope{data=SignatureResponse}
// @Failure 400 {object} Envelope "Invalid request"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Signature not found"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/{id} [patch]
func (h *Handler) updateSignatureRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid signature ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateSignatureRole").WithField("id", id)

	var input UpdateSignatureRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		respondValidation(c, log, err)
		return
	}

	signature, err := h.signatureService.UpdateRole(c.Request.Context(), id, input.SignerRole)
	if err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "signature updated", ModelToSignatureResponse(signature))
}

// @Summary Delete a signature
// @Description Deletion is rejected once the incident is finalized. Requires bearer token.
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Param id path string true "Signature ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope "Invalid signature ID"
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 404 {object} Envelope "Signature not found"
// @Failure 409 {object} Envelope "Incident already finalized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/{id} [delete]
func (h *Handler) deleteSignature(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid signature ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteSignature").WithField("id", id)

	if err := h.signatureService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "signature deleted", nil)
}

// @Summary Signature statistics
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=SignatureStatsResponse}
// @Failure 401 {object} Envelope "Unauthorized"
// @Failure 500 {object} Envelope "Internal server error"
// @Router /signatures/stats [get]
func (h *Handler) getSignatureStats(c *gin.Context) {
	log := h.logger.WithField("method", "getSignatureStats")

	stats, err := h.signatureService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, log, err, "signature")
		return
	}
	respondData(c, http.StatusOK, "", ModelToStatsResponse(stats))
}
