package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/store"
	"github.com/lumenchat/wa-bridge/internal/utils"
)

const (
	// Assistant runs are asynchronous; polling is bounded by this budget.
	openaiGenerateTimeout = 60 * time.Second
	openaiRunPollInterval = 500 * time.Millisecond
)

// OpenAIProvider drives the Assistants API. Each sender gets a server-side
// thread, created on first contact and reused via the thread store, so the
// conversation history lives on OpenAI's side.
type OpenAIProvider struct {
	client      *openai.Client
	assistantID string
	threads     *store.ThreadStore
}

func NewOpenAIProvider(cfg *config.Config, threads *store.ThreadStore) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		assistantID: cfg.OpenAIAssistantID,
		threads:     threads,
	}
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, waID, name, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, openaiGenerateTimeout)
	defer cancel()

	threadID, err := p.resolveThread(ctx, waID, name)
	if err != nil {
		return "", err
	}

	if _, err := p.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	}); err != nil {
		return "", fmt.Errorf("adding message to thread: %w", err)
	}

	run, err := p.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: p.assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("creating assistant run: %w", err)
	}

	for run.Status == openai.RunStatusQueued || run.Status == openai.RunStatusInProgress {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(openaiRunPollInterval):
		}
		run, err = p.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return "", fmt.Errorf("retrieving assistant run: %w", err)
		}
	}
	if run.Status != openai.RunStatusCompleted {
		return "", fmt.Errorf("assistant run ended with status %s", run.Status)
	}

	limit := 1
	order := "desc"
	msgs, err := p.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("listing thread messages: %w", err)
	}
	if len(msgs.Messages) == 0 {
		return "", errors.New("assistant run produced no messages")
	}
	for _, content := range msgs.Messages[0].Content {
		if content.Text != nil && content.Text.Value != "" {
			return content.Text.Value, nil
		}
	}
	return "", errors.New("assistant reply contained no text")
}

// resolveThread returns the sender's existing thread or creates one on first
// contact and records the mapping.
func (p *OpenAIProvider) resolveThread(ctx context.Context, waID, name string) (string, error) {
	threadID, err := p.threads.Get(ctx, waID, config.ProviderOpenAI)
	if err == nil {
		return threadID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("looking up thread: %w", err)
	}

	thread, err := p.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("creating thread: %w", err)
	}
	if err := p.threads.Put(ctx, waID, config.ProviderOpenAI, thread.ID); err != nil {
		// The remote thread exists either way; next message will get a fresh one.
		utils.Zlog.Warn("Failed to persist thread mapping",
			zap.String("wa_id", waID),
			zap.Error(err))
	}
	utils.Zlog.Info("Created assistant thread",
		zap.String("wa_id", waID),
		zap.String("name", name),
		zap.String("thread_id", thread.ID))
	return thread.ID, nil
}
