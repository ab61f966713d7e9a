package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

type Config struct {
	ServiceName string
	Environment string
	ServerPort  string
	LogLevel    string

	// Meta WhatsApp Cloud API
	VerifyToken   string
	AppSecret     string
	AccessToken   string
	AppID         string
	PhoneNumberID string
	RecipientWaID string
	GraphVersion  string

	// AI provider selection (exactly one is active per process)
	AIProvider string

	OpenAIAPIKey      string
	OpenAIAssistantID string

	GeminiAPIKey            string
	GeminiInstructions      string
	GeminiSystemPromptFile  string
	GeminiKnowledgeBasePath string

	DeepSeekAPIKey            string
	DeepSeekKnowledgeBasePath string

	ThreadsDBPath string
}

func LoadConfig() (*Config, error) {
	verifyToken := os.Getenv("VERIFY_TOKEN")
	if verifyToken == "" {
		return nil, errors.New("VERIFY_TOKEN is required")
	}
	appSecret := os.Getenv("APP_SECRET")
	if appSecret == "" {
		return nil, errors.New("APP_SECRET is required")
	}
	accessToken := os.Getenv("ACCESS_TOKEN")
	if accessToken == "" {
		return nil, errors.New("ACCESS_TOKEN is required")
	}
	phoneNumberID := os.Getenv("PHONE_NUMBER_ID")
	if phoneNumberID == "" {
		return nil, errors.New("PHONE_NUMBER_ID is required")
	}

	graphVersion := os.Getenv("VERSION")
	if graphVersion == "" {
		graphVersion = "v21.0"
	}

	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	if provider == "" {
		provider = ProviderOpenAI
	}

	cfg := &Config{
		VerifyToken:   verifyToken,
		AppSecret:     appSecret,
		AccessToken:   accessToken,
		AppID:         os.Getenv("APP_ID"),
		PhoneNumberID: phoneNumberID,
		RecipientWaID: os.Getenv("RECIPIENT_WAID"),
		GraphVersion:  graphVersion,
		AIProvider:    provider,

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIAssistantID: os.Getenv("OPENAI_ASSISTANT_ID"),

		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
		GeminiInstructions:      os.Getenv("GEMINI_ASSISTANT_INSTRUCTIONS"),
		GeminiSystemPromptFile:  os.Getenv("GEMINI_SYSTEM_PROMPT_FILE_PATH"),
		GeminiKnowledgeBasePath: os.Getenv("GEMINI_KNOWLEDGE_BASE_PATH"),

		DeepSeekAPIKey:            os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekKnowledgeBasePath: os.Getenv("DEEPSEEK_KNOWLEDGE_BASE_PATH"),
	}

	if err := cfg.validateProvider(); err != nil {
		return nil, err
	}

	cfg.ServerPort = os.Getenv("PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.ServiceName = os.Getenv("SERVICE_NAME")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "wa-bridge"
	}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.ThreadsDBPath = os.Getenv("THREADS_DB_PATH")
	if cfg.ThreadsDBPath == "" {
		cfg.ThreadsDBPath = "threads.db"
	}

	return cfg, nil
}

// validateProvider enforces the provider enum and its required credentials at
// startup so a misconfigured process never serves a request.
func (c *Config) validateProvider() error {
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
		if c.OpenAIAssistantID == "" {
			return errors.New("OPENAI_ASSISTANT_ID is required when AI_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case ProviderDeepSeek:
		if c.DeepSeekAPIKey == "" {
			return errors.New("DEEPSEEK_API_KEY is required when AI_PROVIDER=deepseek")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q (expected openai, gemini or deepseek)", c.AIProvider)
	}
	return nil
}
