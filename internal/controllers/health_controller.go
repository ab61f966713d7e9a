package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/store"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

type HealthController struct {
	threads *store.ThreadStore
}

func NewHealthController(threads *store.ThreadStore) *HealthController {
	return &HealthController{threads: threads}
}

// HealthCheck reports whether the service and its thread store are healthy.
func (h *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.threads.Ping(ctx); err != nil {
		utils.Zlog.Error("Thread store health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"store":     "down",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"store":     "up",
		"timestamp": time.Now().UTC(),
	})
}
