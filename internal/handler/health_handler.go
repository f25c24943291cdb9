package handler

import (
	"net/http"

	"bizsim-api/internal/container"
	"bizsim-api/pkg/database"
)

type HealthHandler struct {
	container *container.Container
	db        *database.PostgresDB
}

func NewHealthHandler(c *container.Container, db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{container: c, db: db}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK
	checks := map[string]string{
		"database": "up",
		"redis":    "disabled",
	}

	if err := h.db.Health(ctx); err != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}

	if h.container.HasRedis() {
		checks["redis"] = "up"
		if err := h.container.RedisClient.Health(ctx); err != nil {
			// Redis is a cache; degraded, not down.
			checks["redis"] = "down"
		}
	}

	respondJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
