package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	secured := api.Group("")
	secured.Use(BearerAuthMiddleware(h.tokens, h.logger))

	incidents := secured.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id", h.updateIncident)
		incidents.PATCH("/:id/cancel", h.cancelIncident)
		incidents.PATCH("/:id/finalize", h.finalizeIncident)
		incidents.GET("/:id/finalization-details", h.getFinalizationDetails)
	}

	signatures := secured.Group("/signatures")
	{
		signatures.POST("/sign", h.signIncident)
		signatures.GET("/stats", h.getSignatureStats)
		signatures.GET("/user/me", h.listMySignatures)
		signatures.GET("/occurrence/:id", h.getSignatureByIncident)
		signatures.GET("/:id", h.getSignature)
		signatures.PATCH("/:id", h.updateSignatureRole)
		signatures.DELETE("/:id", h.deleteSignature)
	}

	media := secured.Group("/media")
	{
		media.POST("/upload", h.uploadMedia)
		media.POST("/upload-multiple", h.uploadMultipleMedia)
		media.POST("/register", h.registerPhotos)
		media.POST("/register-single", h.registerPhoto)
		media.POST("/delete-multiple", h.deleteMultipleMedia)
		media.GET("", h.listMedia)
		media.GET("/signed-url/:id", h.getSignedURL)
		media.GET("/incident/:id", h.listIncidentMedia)
		media.GET("/:id", h.getMedia)
		media.GET("/:id/download", h.downloadMedia)
		media.PATCH("/:id", h.updateMedia)
		media.DELETE("/:id", h.deleteMedia)
	}
}
