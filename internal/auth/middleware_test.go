package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProtectedRoute(t *testing.T) (*Service, *gin.Engine, func()) {
	t.Helper()
	service, cleanup := setupService(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", NewMiddleware(service).Handler(), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return service, router, cleanup
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_Handler(t *testing.T) {
	service, router, cleanup := setupProtectedRoute(t)
	defer cleanup()

	user, token, err := service.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id"`)
	})

	t.Run("case-insensitive scheme", func(t *testing.T) {
		w := doRequest(router, "bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := doRequest(router, "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token gets 403", func(t *testing.T) {
		expired, err := IssueToken(service.config.JWTSecret, user.ID, user.Username, -time.Minute)
		require.NoError(t, err)

		w := doRequest(router, "Bearer "+expired)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUserID_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := UserID(c)
	assert.False(t, ok)
}
