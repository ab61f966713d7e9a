package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenchat/wa-bridge/internal/api/webhook"
	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/llm"
	"github.com/lumenchat/wa-bridge/internal/middleware"
	"github.com/lumenchat/wa-bridge/internal/store"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, threads *store.ThreadStore, provider llm.Provider, sender webhook.Sender) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Setup route groups
	SetupHealthRoutes(router, threads)
	webhook.RegisterRoutes(router, cfg, provider, sender)
	Setup404Handler(router)
}
