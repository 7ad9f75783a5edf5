package health

import (
	"context"
	"time"

	"shop-backend/internal/cache"
	"shop-backend/internal/monitoring"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db          Pinger
	redisHealth func() bool
	liveClients func() int
	started     time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds cache, live client and host figures to HealthStatus.
type DetailedStatus struct {
	HealthStatus
	Redis       string               `json:"redis"`
	LiveClients int                  `json:"live_clients"`
	Uptime      string               `json:"uptime"`
	Host        monitoring.HostStats `json:"host"`
}

func NewHealthChecker(db Pinger, hub *monitoring.Hub) *HealthChecker {
	h := &HealthChecker{db: db, redisHealth: cache.IsHealthy, started: time.Now()}
	if hub != nil {
		h.liveClients = hub.ClientCount
	}
	return h
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed reports Redis as "disabled" rather than failing, since the
// API runs without it.
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	d := DetailedStatus{
		HealthStatus: h.CheckBasic(),
		Redis:        "disabled",
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Host:         monitoring.CollectHostStats(200 * time.Millisecond),
	}
	if h.redisHealth != nil && h.redisHealth() {
		d.Redis = "healthy"
	}
	if h.liveClients != nil {
		d.LiveClients = h.liveClients()
	}
	return d
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "unhealthy"}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
