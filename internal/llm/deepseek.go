package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/knowledge"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

const (
	deepseekBaseURL         = "https://api.deepseek.com/v1"
	deepseekModel           = "deepseek-chat"
	deepseekGenerateTimeout = 30 * time.Second
)

// DeepSeekProvider calls the DeepSeek Chat Completions API (OpenAI-compatible).
// Every request is single-turn: the knowledge base rides along as the system
// message and no history is kept across messages. Known limitation, not a bug.
type DeepSeekProvider struct {
	client    *openai.Client
	knowledge string
}

func NewDeepSeekProvider(ctx context.Context, cfg *config.Config) *DeepSeekProvider {
	clientCfg := openai.DefaultConfig(cfg.DeepSeekAPIKey)
	clientCfg.BaseURL = deepseekBaseURL

	kb := knowledge.LoadDirectory(ctx, cfg.DeepSeekKnowledgeBasePath)
	if kb != "" {
		utils.Zlog.Info("DeepSeek knowledge base loaded",
			zap.Int("chars", len(kb)))
	}

	return &DeepSeekProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		knowledge: kb,
	}
}

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, waID, name, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, deepseekGenerateTimeout)
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if p.knowledge != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are an AI assistant. Use the following knowledge base to answer questions. Prioritize this information.\n---BEGIN KNOWLEDGE BASE---\n" + p.knowledge + "\n---END KNOWLEDGE BASE---",
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	utils.Zlog.Debug("Invoking DeepSeek",
		zap.String("wa_id", waID),
		zap.String("name", name))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    deepseekModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("deepseek chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty response from DeepSeek")
	}
	return resp.Choices[0].Message.Content, nil
}
