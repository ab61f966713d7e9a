package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VERIFY_TOKEN", "verify-me")
	t.Setenv("APP_SECRET", "shhh")
	t.Setenv("ACCESS_TOKEN", "EAAG-token")
	t.Setenv("PHONE_NUMBER_ID", "123450001")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_ASSISTANT_ID", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("VERSION", "")
	t.Setenv("PORT", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GraphVersion != "v21.0" {
		t.Errorf("GraphVersion = %q, want v21.0", cfg.GraphVersion)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.ThreadsDBPath != "threads.db" {
		t.Errorf("ThreadsDBPath = %q, want threads.db", cfg.ThreadsDBPath)
	}
}

func TestLoadConfigDefaultsToOpenAI(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_ASSISTANT_ID", "asst_123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AIProvider != ProviderOpenAI {
		t.Errorf("AIProvider = %q, want %q", cfg.AIProvider, ProviderOpenAI)
	}
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "llama-at-home")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown provider, got nil")
	} else if !strings.Contains(err.Error(), "AI_PROVIDER") {
		t.Errorf("error %q should name AI_PROVIDER", err)
	}
}

func TestLoadConfigMissingProviderKey(t *testing.T) {
	cases := []struct {
		provider string
		want     string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"gemini", "GEMINI_API_KEY"},
		{"deepseek", "DEEPSEEK_API_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("AI_PROVIDER", tc.provider)
			_, err := LoadConfig()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should name %s", err, tc.want)
			}
		})
	}
}

func TestLoadConfigMissingAssistantID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing assistant id, got nil")
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("APP_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing APP_SECRET, got nil")
	}
}
