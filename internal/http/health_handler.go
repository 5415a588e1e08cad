package http

import (
	"net/http"

	"github.com/tuannm151/sweetshop/internal/storage/db"
)

type healthHandler struct {
	health db.HealthChecker
	rs     *responder
}

func newHealthHandler(health db.HealthChecker, rs *responder) *healthHandler {
	return &healthHandler{
		health: health,
		rs:     rs,
	}
}

func (h *healthHandler) root(w http.ResponseWriter, r *http.Request) {
	h.rs.JSON(w, r, http.StatusOK, map[string]string{
		"message": "Welcome to Sweet Shop Management System API",
		"version": "1.0.0",
		"docs":    "/docs",
		"health":  "/api/health",
	})
}

func (h *healthHandler) check(w http.ResponseWriter, r *http.Request) {
	if healthy, err := h.health.IsHealthy(r.Context()); err != nil || !healthy {
		h.rs.JSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"message": "database is unreachable",
		})
		return
	}

	h.rs.JSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Sweet Shop API is running",
	})
}
