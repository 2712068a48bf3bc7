package handler

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const dependencyProbeTimeout = 5 * time.Second

// RecordStreamStatus is the slice of the snapshot hub the readiness probe
// cares about: whether the live feed is attached to its notification
// channel.
type RecordStreamStatus interface {
	Listening() bool
}

// HealthHandler serves the liveness and readiness probes. Liveness only
// confirms the process answers; readiness probes the stores and the live
// record stream, since a dashboard without any of them is not usable.
type HealthHandler struct {
	db        *sql.DB
	redis     *redis.Client
	stream    RecordStreamStatus
	startTime time.Time
	version   string
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, stream RecordStreamStatus) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		stream:    stream,
		startTime: time.Now(),
		version:   version,
	}
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func up() Check           { return Check{Status: "UP"} }
func down(m string) Check { return Check{Status: "DOWN", Message: m} }

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": up()},
	})
}

// Live is the liveness alias some platforms probe separately.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := map[string]Check{
		"database":      h.checkDatabase(r.Context()),
		"redis":         h.checkRedis(r.Context()),
		"record_stream": h.checkStream(),
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, check := range checks {
		if check.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return down("database handle not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, dependencyProbeTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return down("database unreachable")
	}
	return up()
}

func (h *HealthHandler) checkRedis(ctx context.Context) Check {
	if h.redis == nil {
		return down("redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, dependencyProbeTimeout)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		return down("redis unreachable")
	}
	return up()
}

func (h *HealthHandler) checkStream() Check {
	if h.stream == nil {
		return down("record stream not initialized")
	}
	if !h.stream.Listening() {
		return down("record stream not listening for changes")
	}
	return up()
}
