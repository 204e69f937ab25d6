package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "truetimer/backend/internal/errors"
	"truetimer/backend/internal/service"
)

const (
	UserIDHeader     = "X-User-ID"
	UserIDContextKey = "userID"
)

// RequireUserID checks that the caller names itself with a UUID in the
// X-User-ID header. Whether that user exists is left to the service.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			writeError(c, apperrors.BadRequest("missing_user_id", "X-User-ID header required"))
			return
		}

		userID, err := service.ParseUserID(raw)
		if err != nil {
			writeError(c, apperrors.BadRequest("invalid_user_id", "Invalid UUID"))
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	value, ok := c.Get(UserIDContextKey)
	if !ok {
		return ""
	}
	userID, ok := value.(string)
	if !ok {
		return ""
	}
	return userID
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
