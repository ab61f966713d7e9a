package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/store"
)

// NewProvider resolves the configured provider once at startup. Unknown names
// and missing credentials fail here, before any request is served.
func NewProvider(ctx context.Context, cfg *config.Config, threads *store.ThreadStore) (Provider, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		if cfg.OpenAIAssistantID == "" {
			return nil, errors.New("OPENAI_ASSISTANT_ID is not set")
		}
		return NewOpenAIProvider(cfg, threads), nil

	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		return NewGeminiProvider(ctx, cfg)

	case config.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return nil, errors.New("DEEPSEEK_API_KEY is not set")
		}
		return NewDeepSeekProvider(ctx, cfg), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
}
