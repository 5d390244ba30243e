package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	dbPing            func(ctx context.Context) error
	profileCacheReady func() bool
}

func NewHealthHandler(dbPing func(ctx context.Context) error, profileCacheReady func() bool) *HealthHandler {
	return &HealthHandler{
		dbPing:            dbPing,
		profileCacheReady: profileCacheReady,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.dbPing(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	// Matchmaking serves from the directory snapshot, so an uninitialized
	// cache means the instance is not ready for traffic.
	if !h.profileCacheReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "profile cache not initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
