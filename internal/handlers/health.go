package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/versity-app/volunteer-api/internal/errors"
)

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// Root returns the API banner.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Versity Volunteer API",
		"status":  "running",
		"version": "1.0.0",
	})
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// DBHealth reports whether the database answers queries.
func (h *HealthHandler) DBHealth(c *gin.Context) {
	if err := h.db.Exec("SELECT 1").Error; err != nil {
		apierrors.ServiceUnavailable(c, "Database is not reachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
