package webhook

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/llm"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

// RegisterRoutes registers the Meta webhook endpoints
func RegisterRoutes(router *gin.Engine, cfg *config.Config, provider llm.Provider, sender Sender) {
	service := NewService(cfg, provider, sender)
	ctrl := NewController(cfg, service)

	// Meta sends GET for verification, POST for messages
	router.GET("/webhook", ctrl.VerifyWebhook)
	router.POST("/webhook", ctrl.Webhook)

	utils.Zlog.Info("Webhook routes registered",
		zap.String("verify_endpoint", "/webhook [GET]"),
		zap.String("webhook_endpoint", "/webhook [POST]"))
}
