package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifiers for backend selection.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// ollamaBaseURL is the default endpoint of a locally served
// OpenAI-compatible Ollama instance.
const ollamaBaseURL = "http://localhost:11434/v1"

// defaultMaxTokens bounds completion length when the caller doesn't set one.
const defaultMaxTokens = 2000

// Client is the text-completion capability the review engine consumes.
// Implementations must surface transport and auth failures as errors.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Config selects and configures a backend. Selection happens once at
// construction; the engine never re-dispatches per call.
type Config struct {
	Provider  string // "anthropic", "openai", or "ollama"
	Model     string // provider default used when empty
	APIKey    string // not required for ollama
	BaseURL   string // optional API endpoint override
	MaxTokens int
}

// New creates a Client for the configured provider.
func New(cfg Config) (Client, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	switch cfg.Provider {
	case ProviderAnthropic, "":
		return newAnthropicClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderOllama:
		// Ollama speaks the OpenAI wire protocol and ignores the key.
		if cfg.BaseURL == "" {
			cfg.BaseURL = ollamaBaseURL
		}
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		if cfg.Model == "" {
			cfg.Model = "llama3.2:latest"
		}
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// StripFences removes a markdown code fence wrapping, if present.
// Models often fence JSON responses despite instructions not to.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
