package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

// Controller handles the Meta webhook endpoints.
type Controller struct {
	cfg     *config.Config
	service *Service
}

func NewController(cfg *config.Config, service *Service) *Controller {
	return &Controller{
		cfg:     cfg,
		service: service,
	}
}

// VerifyWebhook handles Meta's one-time verification handshake.
// GET /webhook
func (c *Controller) VerifyWebhook(ctx *gin.Context) {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.cfg.VerifyToken {
		utils.Zlog.Info("Webhook verified")
		// Meta expects the challenge echoed back as plain text.
		ctx.String(http.StatusOK, challenge)
		return
	}

	utils.Zlog.Warn("Webhook verification failed",
		zap.String("mode", mode))
	ctx.JSON(http.StatusForbidden, gin.H{
		"error": "verification_failed",
	})
}

// Webhook handles incoming message events.
// POST /webhook
func (c *Controller) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		utils.Zlog.Error("Failed to read webhook body", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	signature := ctx.GetHeader("X-Hub-Signature-256")
	if err := ValidateSignature(body, signature, c.cfg.AppSecret); err != nil {
		utils.Zlog.Warn("Rejected webhook with bad signature", zap.Error(err))
		ctx.JSON(http.StatusForbidden, gin.H{"error": "invalid_signature"})
		return
	}

	msg, ok := ParsePayload(body)
	if !ok {
		// Status callbacks and unrecognized-but-authentic shapes must still
		// be acknowledged or Meta disables the subscription.
		ctx.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	// Respond immediately to Meta (they require a fast ack), then generate
	// and send the reply in the background.
	ctx.JSON(http.StatusOK, gin.H{"status": "received"})

	go func() {
		processCtx := context.Background()
		if err := c.service.ProcessAndRespond(processCtx, msg); err != nil {
			utils.Zlog.Error("Failed to process WhatsApp message",
				zap.String("wa_id", msg.WaID),
				zap.Error(err))
		}
	}()
}
