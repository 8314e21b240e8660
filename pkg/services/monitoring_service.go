package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
// リクエストログとブループリント生成結果の件数をメモリ上に保持します。
type MonitoringService struct {
	mu       sync.RWMutex
	logs     []LogEntry
	outcomes map[OutcomeKind]int
	now      func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs:     make([]LogEntry, 0),
		outcomes: make(map[OutcomeKind]int),
		now:      time.Now,
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// RecordBlueprint はブループリント生成の結果を記録します。
func (s *MonitoringService) RecordBlueprint(kind OutcomeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[kind]++
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		c.Next()

		// 管理系のリクエストは集計対象外
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		})
	}
}

// EndpointLatency エンドポイントごとの平均応答時間
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"` // ミリ秒
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	PeriodHours       int                 `json:"periodHours"`
	TotalRequests     int                 `json:"totalRequests"`
	Endpoints         map[string]int      `json:"endpoints"`
	StatusCodes       map[string]int      `json:"statusCodes"`
	AvgResponseTimes  []EndpointLatency   `json:"avgResponseTimes"`
	RecentErrors      []LogEntry          `json:"recentErrors"`
	BlueprintOutcomes map[OutcomeKind]int `json:"blueprintOutcomes"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := s.now().Add(-time.Duration(periodHours) * time.Hour)

	data := DashboardData{
		PeriodHours: periodHours,
		Endpoints:   make(map[string]int),
		StatusCodes: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		AvgResponseTimes:  make([]EndpointLatency, 0),
		RecentErrors:      make([]LogEntry, 0),
		BlueprintOutcomes: make(map[OutcomeKind]int, len(s.outcomes)),
	}

	responseTimeSum := make(map[string]time.Duration)
	for _, entry := range s.logs {
		if !entry.Timestamp.After(since) {
			continue
		}
		data.TotalRequests++
		data.Endpoints[entry.Path]++
		responseTimeSum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusCodes["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			data.StatusCodes["4xx Client Error"]++
		case entry.StatusCode >= 500:
			data.StatusCodes["5xx Server Error"]++
		}
	}

	for path, total := range responseTimeSum {
		data.AvgResponseTimes = append(data.AvgResponseTimes, EndpointLatency{
			Endpoint:     path,
			ResponseTime: total.Milliseconds() / int64(data.Endpoints[path]),
		})
	}
	sort.Slice(data.AvgResponseTimes, func(i, j int) bool {
		return data.AvgResponseTimes[i].Endpoint < data.AvgResponseTimes[j].Endpoint
	})

	// 新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		if s.logs[i].StatusCode >= 500 && s.logs[i].Timestamp.After(since) {
			data.RecentErrors = append(data.RecentErrors, s.logs[i])
		}
	}

	for kind, count := range s.outcomes {
		data.BlueprintOutcomes[kind] = count
	}
	return data
}
