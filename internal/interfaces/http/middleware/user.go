package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medledger/backend/internal/interfaces/http/dto"
)

// UserIDHeader carries the caller identity. The service runs behind a
// fronting gateway that authenticates the user and forwards their ID;
// this middleware only validates the header shape.
const UserIDHeader = "X-User-ID"

// userIDContextKey is the gin context key the parsed user ID is stored under
const userIDContextKey = "user_id"

// RequireUser extracts and validates the user identity header, aborting
// requests that lack one
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing "+UserIDHeader+" header"))
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid "+UserIDHeader+" header"))
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID set by RequireUser
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}
