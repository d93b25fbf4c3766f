package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireUser(t *testing.T) {
	newEngine := func(captured *uuid.UUID) *gin.Engine {
		engine := gin.New()
		engine.Use(RequireUser())
		engine.GET("/ping", func(c *gin.Context) {
			if id, ok := GetUserID(c); ok {
				*captured = id
			}
			c.Status(http.StatusOK)
		})
		return engine
	}

	t.Run("passes a valid user ID through", func(t *testing.T) {
		var captured uuid.UUID
		engine := newEngine(&captured)
		userID := uuid.New()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(UserIDHeader, userID.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, captured)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		var captured uuid.UUID
		engine := newEngine(&captured)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		var captured uuid.UUID
		engine := newEngine(&captured)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(UserIDHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		var captured uuid.UUID
		engine := newEngine(&captured)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(UserIDHeader, uuid.Nil.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
