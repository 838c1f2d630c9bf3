package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/i18n"
	"github.com/noah-isme/academy-attendance-api/internal/middleware"
	"github.com/noah-isme/academy-attendance-api/internal/service"
	"github.com/noah-isme/academy-attendance-api/internal/store"
)

func newIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewAttendanceStore()
	st.ReplaceAll(store.DemoAttendance())
	dir := store.DemoDirectory()
	translator, err := i18n.New("en")
	require.NoError(t, err)
	metrics := service.NewMetricsService()
	cache := service.NewCacheService(nil, metrics, time.Minute, zap.NewNop(), false)
	attendance := service.NewAttendanceService(st, dir, cache, metrics, translator, nil, zap.NewNop())
	t.Cleanup(attendance.Close)

	router := gin.New()
	router.Use(middleware.WithResponseMeta(), middleware.Locale())
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Attendance: NewAttendanceHandler(attendance),
		Directory:  NewDirectoryHandler(service.NewDirectoryService(dir, nil, nil)),
		Dashboard:  NewDashboardHandler(service.NewDashboardService(st, dir, translator, nil)),
		Metrics:    NewMetricsHandler(metrics, nil),
	})
	return router
}

func TestRoutesMarkThenReport(t *testing.T) {
	router := newIntegrationRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance", bytes.NewBufferString(`{"student_id":"s2","date":"2024-11-20","status":"leave"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attendance/daily?batchId=batch1&date=2024-11-20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var daily struct {
		Data dto.DailyReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &daily))
	assert.Equal(t, 1, daily.Data.Stats.Leave)
	assert.Equal(t, 2, daily.Data.Stats.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attendance/status?studentId=s1&date=2024-11-20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"marked":false`)
	assert.Contains(t, rec.Body.String(), `"status":null`)
}

func TestRoutesYearlyMonthCells(t *testing.T) {
	router := newIntegrationRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attendance/yearly?batchId=batch4&year=2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var yearly struct {
		Data dto.YearlyReport      `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &yearly))
	require.Len(t, yearly.Data.Students, 1)
	assert.Equal(t, "0%", yearly.Data.Students[0].Months[time.November-1].String())
	assert.Equal(t, "-", yearly.Data.Students[0].Months[time.December-1].String())
	assert.Equal(t, false, yearly.Meta["cache_hit"])
}

func TestRoutesSnapshotsDisabled(t *testing.T) {
	router := newIntegrationRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attendance/save", nil))
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attendance/restore", nil))
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestRoutesDashboardAndExport(t *testing.T) {
	router := newIntegrationRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?date=2024-11-19", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"present_today":5`)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/yearly/export?batchId=batch3&year=2024&format=csv", nil)
	req.Header.Set("Accept-Language", "en")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Sneha Singh")
}
