package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/ignis_incident_service/internal/service"
	"github.com/sirupsen/logrus"
)

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, status int, message string, fields ...string) {
	c.JSON(status, Envelope{Success: false, Message: message, Errors: fields})
}

func abortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// respondValidation отвечает 400 со списком полей, не прошедших проверку validator
func respondValidation(c *gin.Context, log *logrus.Entry, err error) {
	log.WithError(err).Warn("Validation failed")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondFail(c, http.StatusBadRequest, "validation failed")
		return
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	respondFail(c, http.StatusBadRequest, "validation failed", fields...)
}

// respondError сопоставляет ошибку сервиса с кодом ответа
func respondError(c *gin.Context, log *logrus.Entry, err error, resource string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.WithError(err).Warn("Request rejected by validation")
		respondFail(c, http.StatusBadRequest, vErr.Message, vErr.Fields...)
	case errors.Is(err, service.ErrValidation):
		log.WithError(err).Warn("Request rejected by validation")
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Resource not found")
		respondFail(c, http.StatusNotFound, resource+" not found")
	case errors.Is(err, service.ErrConflict):
		log.WithError(err).Warn("Request conflicts with current state")
		respondFail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respondFail(c, http.StatusUnauthorized, "unauthenticated")
	default:
		log.WithError(err).Error("Unexpected service failure")
		respondFail(c, http.StatusInternalServerError, "internal server error")
	}
}
