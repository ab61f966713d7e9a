package webhook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/llm"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

// Only text messages reach the provider; everything else gets this notice.
const nonTextReply = "I can only read text messages for now. Please send your question as text."

// Sender delivers the generated reply to the user.
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Service generates a reply for an inbound message and sends it back through
// the Graph API.
type Service struct {
	cfg      *config.Config
	provider llm.Provider
	sender   Sender
}

func NewService(cfg *config.Config, provider llm.Provider, sender Sender) *Service {
	return &Service{
		cfg:      cfg,
		provider: provider,
		sender:   sender,
	}
}

// ProcessAndRespond runs the generate-and-reply cycle for one message.
// Provider failures are swallowed into the fallback reply; only a failed
// Graph API send surfaces as an error, and the caller just logs it (the
// webhook has already been acknowledged).
func (s *Service) ProcessAndRespond(ctx context.Context, msg *ParsedMessage) error {
	startTime := time.Now()

	utils.Zlog.Info("Processing WhatsApp message",
		zap.String("wa_id", msg.WaID),
		zap.String("name", msg.Name),
		zap.String("message_type", msg.Type),
		zap.String("message_id", msg.MessageID))

	var reply string
	if msg.Type != "text" {
		reply = nonTextReply
	} else {
		generated, err := s.provider.GenerateResponse(ctx, msg.WaID, msg.Name, msg.Text)
		if err != nil {
			utils.Zlog.Error("Provider generation failed, using fallback reply",
				zap.String("wa_id", msg.WaID),
				zap.Error(err))
			generated = llm.FallbackReply
		}
		reply = utils.FormatForWhatsApp(generated)
	}

	sentMsgID, err := s.sender.SendText(ctx, msg.WaID, reply)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message: %w", err)
	}

	utils.Zlog.Info("WhatsApp message processed and sent",
		zap.String("wa_id", msg.WaID),
		zap.String("sent_msg_id", sentMsgID),
		zap.Int64("latency_ms", time.Since(startTime).Milliseconds()))

	return nil
}
