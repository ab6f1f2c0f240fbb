package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/auth"
	"github.com/sirupsen/logrus"
)

const (
	ctxUserIDKey   = "userID"
	ctxUserRoleKey = "userRole"
)

// TokenVerifier проверяет bearer-токен и возвращает его содержимое
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BearerAuthMiddleware - middleware для аутентификации по bearer-токену
func BearerAuthMiddleware(tokens TokenVerifier, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Bearer token missing from request")
			abortFail(c, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		if err != nil {
			log.WithError(err).Warn("Invalid bearer token provided")
			abortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			log.WithError(err).Warn("Token subject is not a user id")
			abortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, claims.Role)
		c.Next()
	}
}

// currentUserID возвращает id пользователя, установленный middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ctxUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
