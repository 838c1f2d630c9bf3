package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/academy-attendance-api/pkg/config"
	"github.com/noah-isme/academy-attendance-api/pkg/middleware/requestid"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		encoding string
		level    zapcore.Level
	}{
		{name: "development defaults", cfg: config.Config{Env: config.EnvDevelopment}, encoding: "json", level: zapcore.DebugLevel},
		{name: "production defaults", cfg: config.Config{Env: config.EnvProduction}, encoding: "json", level: zapcore.InfoLevel},
		{name: "console format", cfg: config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Format: "Console"}}, encoding: "console", level: zapcore.DebugLevel},
		{name: "unknown format", cfg: config.Config{Env: config.EnvProduction, Log: config.LogConfig{Format: "xml"}}, encoding: "json", level: zapcore.InfoLevel},
		{name: "explicit level", cfg: config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn"}}, encoding: "json", level: zapcore.WarnLevel},
		{name: "bad level falls back to info", cfg: config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "loud"}}, encoding: "json", level: zapcore.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			zapCfg := buildConfig(&cfg)
			assert.Equal(t, tc.encoding, zapCfg.Encoding)
			assert.Equal(t, tc.level, zapCfg.Level.Level())
			assert.Equal(t, "timestamp", zapCfg.EncoderConfig.TimeKey)
		})
	}
}

func TestNewAppliesLevel(t *testing.T) {
	l, err := New(&config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "error"}})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func newLoggedRouter(t *testing.T, skip ...string) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(requestid.Middleware())
	r.Use(func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	})
	r.Use(GinMiddleware(zap.New(core), skip...))
	r.GET("/api/v1/reports/yearly", func(c *gin.Context) {
		meta, _ := c.Get(responseMetaKey)
		meta.(map[string]interface{})["cache_hit"] = true
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/students", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	r.GET("/api/v1/attendance/snapshot", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, logs
}

func TestGinMiddlewareLevelsByStatus(t *testing.T) {
	r, logs := newLoggedRouter(t)

	tests := []struct {
		path  string
		level zapcore.Level
	}{
		{path: "/api/v1/reports/yearly?year=2024", level: zapcore.InfoLevel},
		{path: "/api/v1/students?page=x", level: zapcore.WarnLevel},
		{path: "/api/v1/attendance/snapshot", level: zapcore.ErrorLevel},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

		entries := logs.TakeAll()
		require.Len(t, entries, 1, tc.path)
		assert.Equal(t, "http_request", entries[0].Message)
		assert.Equal(t, tc.level, entries[0].Level, tc.path)
	}
}

func TestGinMiddlewareFields(t *testing.T) {
	r, logs := newLoggedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/yearly?year=2024", nil)
	req.Header.Set(requestid.HeaderKey, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/reports/yearly", fields["route"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "year=2024", fields["query"])
	assert.Equal(t, true, fields["cache_hit"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/students", nil))
	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	_, hasCache := entries[0].ContextMap()["cache_hit"]
	assert.False(t, hasCache)
	_, hasQuery := entries[0].ContextMap()["query"]
	assert.False(t, hasQuery)
}

func TestGinMiddlewareSkipsQuietPaths(t *testing.T) {
	r, logs := newLoggedRouter(t, "/health", "/api/v1/attendance/snapshot")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 0, logs.Len())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/attendance/snapshot", nil))
	assert.Equal(t, 1, logs.Len(), "failures on skipped paths are still logged")
}
