package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/knowledge"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

const (
	geminiModelName       = "gemini-2.0-flash-lite"
	geminiGenerateTimeout = 30 * time.Second
)

// GeminiProvider answers each message with a single-turn generate call. The
// system instruction (from file, inline config or none) and the knowledge
// base blob are resolved once at construction; no per-sender thread is kept.
type GeminiProvider struct {
	chatModel model.ToolCallingChatModel
	system    string
}

func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	temperature := float32(0.7)
	maxTokens := 1024
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       geminiModelName,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini chat model: %w", err)
	}

	system := resolveSystemInstructions(ctx, cfg)
	if system != "" {
		utils.Zlog.Info("Gemini provider initialized with system instructions",
			zap.Int("instruction_chars", len(system)))
	} else {
		utils.Zlog.Info("Gemini provider initialized without system instructions")
	}

	return &GeminiProvider{
		chatModel: chatModel,
		system:    system,
	}, nil
}

// resolveSystemInstructions prefers the prompt file, then the inline
// instruction string, then nothing, and appends the knowledge base preamble
// when knowledge content is configured.
func resolveSystemInstructions(ctx context.Context, cfg *config.Config) string {
	instructions := knowledge.LoadFile(ctx, cfg.GeminiSystemPromptFile)
	if instructions == "" {
		instructions = cfg.GeminiInstructions
	}

	kb := knowledge.LoadDirectory(ctx, cfg.GeminiKnowledgeBasePath)
	if kb != "" {
		preamble := "\n\nUse the following information from the knowledge base to answer user questions. Prioritize this information above all other knowledge:\n---\n" + kb + "\n---"
		if instructions != "" {
			instructions += preamble
		} else {
			// The knowledge base becomes the primary instruction.
			instructions = strings.TrimSpace(preamble)
		}
	}
	return instructions
}

func (p *GeminiProvider) GenerateResponse(ctx context.Context, waID, name, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiGenerateTimeout)
	defer cancel()

	var messages []*schema.Message
	if p.system != "" {
		messages = append(messages, schema.SystemMessage(p.system))
	}
	messages = append(messages, schema.UserMessage(message))

	utils.Zlog.Debug("Invoking Gemini",
		zap.String("wa_id", waID),
		zap.String("name", name))

	out, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if out == nil || out.Content == "" {
		return "", errors.New("empty response from Gemini")
	}
	return out.Content, nil
}
