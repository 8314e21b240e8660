package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddlewareSkipsAdminPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	monitor := NewMonitoringService()

	router := gin.New()
	router.Use(monitor.LoggingMiddleware())
	router.GET("/api/v1/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/admin/health-status", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/api/v1/products", "/api/v1/admin/health-status", "/boom", "/missing"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	data := monitor.GetDashboardData(1)
	assert.Equal(t, 3, data.TotalRequests)
	assert.Equal(t, 1, data.Endpoints["/api/v1/products"])
	assert.NotContains(t, data.Endpoints, "/api/v1/admin/health-status")
	assert.Equal(t, 1, data.StatusCodes["2xx Success"])
	assert.Equal(t, 1, data.StatusCodes["4xx Client Error"])
	assert.Equal(t, 1, data.StatusCodes["5xx Server Error"])
	if assert.Len(t, data.RecentErrors, 1) {
		assert.Equal(t, "/boom", data.RecentErrors[0].Path)
	}
}

func TestGetDashboardDataFiltersByPeriod(t *testing.T) {
	monitor := NewMonitoringService()
	now := time.Date(2025, 11, 22, 12, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return now }

	monitor.LogRequest(LogEntry{Timestamp: now.Add(-30 * time.Minute), Path: "/generate", StatusCode: 200, ResponseTime: 200 * time.Millisecond})
	monitor.LogRequest(LogEntry{Timestamp: now.Add(-20 * time.Minute), Path: "/generate", StatusCode: 200, ResponseTime: 400 * time.Millisecond})
	monitor.LogRequest(LogEntry{Timestamp: now.Add(-5 * time.Hour), Path: "/generate", StatusCode: 200})

	lastHour := monitor.GetDashboardData(1)
	assert.Equal(t, 2, lastHour.TotalRequests)
	if assert.Len(t, lastHour.AvgResponseTimes, 1) {
		assert.Equal(t, int64(300), lastHour.AvgResponseTimes[0].ResponseTime)
	}

	assert.Equal(t, 3, monitor.GetDashboardData(24).TotalRequests)
}
