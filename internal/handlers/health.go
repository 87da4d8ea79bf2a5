package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthChecker - зависимость, которую проверяют /health и /ready
type HealthChecker interface {
	Health(ctx context.Context) error
}

// PoolStatsProvider отдает статистику пула соединений Postgres
type PoolStatsProvider interface {
	PoolStats() DatabasePoolStats
}

type HealthHandler struct {
	db    HealthChecker
	redis HealthChecker
	pool  PoolStatsProvider
}

func NewHealthHandler(db, redis HealthChecker, pool PoolStatsProvider) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		pool:  pool,
	}
}

type HealthResponse struct {
	Status       string             `json:"status"`
	Services     map[string]string  `json:"services"`
	DatabasePool *DatabasePoolStats `json:"database_pool,omitempty"`
}

type DatabasePoolStats struct {
	TotalConns    int32 `json:"total_connections"`
	IdleConns     int32 `json:"idle_connections"`
	AcquiredConns int32 `json:"acquired_connections"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := HealthResponse{
		Status:   "ok",
		Services: make(map[string]string),
	}

	if err := h.db.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Services["database"] = "down: " + err.Error()
	} else {
		response.Services["database"] = "ok"
	}

	if err := h.redis.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Services["redis"] = "down: " + err.Error()
	} else {
		response.Services["redis"] = "ok"
	}

	if h.pool != nil {
		stats := h.pool.PoolStats()
		response.DatabasePool = &stats
	}

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		http.Error(w, "Database not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.redis.Health(ctx); err != nil {
		http.Error(w, "Redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
