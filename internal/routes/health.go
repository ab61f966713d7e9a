package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenchat/wa-bridge/internal/controllers"
	"github.com/lumenchat/wa-bridge/internal/store"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, threads *store.ThreadStore) {
	healthController := controllers.NewHealthController(threads)

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Health check endpoint
	router.GET("/health", healthController.HealthCheck)
}
