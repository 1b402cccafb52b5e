package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth handles GET /v1/health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "ok"
	code := 200
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		status = "degraded"
		code = 503
	}
	c.JSON(code, gin.H{"status": status})
}
