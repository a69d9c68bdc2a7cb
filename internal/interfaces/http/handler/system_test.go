package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("kkambbaki-backend", nil)
	r := gin.New()
	r.GET("/system/info", h.GetSystemInfo)

	rec := doJSON(t, r, http.MethodGet, "/system/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decodeData[SystemInfoResponse](t, rec)
	assert.Equal(t, "kkambbaki-backend", info.Name)
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_Ping(t *testing.T) {
	r := gin.New()
	r.GET("/system/ping", NewSystemHandler("x", nil).Ping)

	rec := doJSON(t, r, http.MethodGet, "/system/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", decodeData[PingResponse](t, rec).Message)
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	t.Run("healthy", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("x", map[string]Pinger{"database": ok, "redis": ok}).Health)

		rec := doJSON(t, r, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeData[HealthResponse](t, rec)
		assert.Equal(t, "healthy", got.Status)
		assert.Equal(t, map[string]string{"database": "up", "redis": "up"}, got.Checks)
	})

	t.Run("unhealthy", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("x", map[string]Pinger{"database": ok, "redis": down}).Health)

		rec := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		env := decode(t, rec)
		assert.False(t, env.Success)
		assert.Contains(t, string(env.Data), `"redis":"down"`)
	})
}
