package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbPing func(ctx context.Context) error
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbPing func(ctx context.Context) error) *HealthController {
	return &HealthController{
		dbPing: dbPing,
	}
}

// Check handles GET /health requests.
// The API reports 503 while the database is unreachable.
func (h *HealthController) Check(c *gin.Context) {
	status, code := "ok", http.StatusOK
	dbStatus := "connected"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.dbPing == nil || h.dbPing(ctx) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
		dbStatus = "disconnected"
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Database:  dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
