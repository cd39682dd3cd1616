package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"erpchat/internal/domain/catalog"
)

// HealthHandler serves liveness/readiness probes.
type HealthHandler struct {
	catalogs  *catalog.Service
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(catalogs *catalog.Service, version string) *HealthHandler {
	return &HealthHandler{
		catalogs:  catalogs,
		startedAt: time.Now(),
		version:   version,
	}
}

// Live always returns 200 while the process runs.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready returns 200 once the catalog has been loaded at least once.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.catalogs.Snapshot() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "catalog not loaded",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Info reports version, uptime and catalog freshness.
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"version":  h.version,
		"uptime_s": int(time.Since(h.startedAt).Seconds()),
	}
	if snap := h.catalogs.Snapshot(); snap != nil {
		info["catalog"] = gin.H{
			"vendors":    len(snap.Vendors),
			"products":   len(snap.Products),
			"warehouses": len(snap.Warehouses),
			"loaded_at":  h.catalogs.LoadedAt(),
		}
	}
	c.JSON(http.StatusOK, info)
}
