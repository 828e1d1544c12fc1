package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyanMustafa/Anevo/internal/logger"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// System handles service-level endpoints: the root banner and the
// health probe.
type System struct {
	db      Pinger
	version string
	logger  *logger.Logger
}

// NewSystem creates a new System handler.
func NewSystem(db Pinger, version string, logger *logger.Logger) *System {
	return &System{
		db:      db,
		version: version,
		logger:  logger,
	}
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Root returns the API banner.
func (h *System) Root(c *gin.Context) {
	c.JSON(http.StatusOK, rootResponse{
		Message: "Welcome to Anevo Notes API",
		Version: h.version,
	})
}

// Health reports whether the service can reach its database.
func (h *System) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("System handler: health check failed",
			"error", err.Error())
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, healthResponse{Status: "healthy"})
}
