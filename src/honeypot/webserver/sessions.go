package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSession is the read-only introspection view. GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	snap, ok := h.store.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"err": "session not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Health reports liveness and the active session count. GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"active_sessions": h.store.Count(),
	})
}

// Root gives a minimal service description. GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Agentic Honeypot API",
		"version": "1.0.0",
		"health":  "/health",
	})
}
