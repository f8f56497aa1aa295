package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	router.GET("/health", h.Live)
	router.GET("/health/ready", h.Ready)
	return router
}

func TestHealthHandler_Live(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthRouter(NewHealthHandler("1.2.3")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.GoVersion)
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewHealthHandler("dev")
		h.AddCheck("database", func(context.Context) error { return nil })

		w := httptest.NewRecorder()
		newHealthRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, map[string]string{"database": "ok"}, resp.Checks)
	})

	t.Run("failing check makes the service unready", func(t *testing.T) {
		h := NewHealthHandler("dev")
		h.AddCheck("database", func(context.Context) error { return nil })
		h.AddCheck("report_cache", func(context.Context) error { return errors.New("dial tcp 127.0.0.1:6379: connection refused") })

		w := httptest.NewRecorder()
		newHealthRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "unavailable", resp.Checks["report_cache"])
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
