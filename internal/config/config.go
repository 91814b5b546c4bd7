// Package config assembles the effective program configuration from
// viper (defaults, config file, LGTM_* env) plus conventional credential
// env vars.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/joescharf/lgtm/internal/llm"
)

// AI holds model backend settings.
type AI struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// Jira holds issue tracker connection settings.
type Jira struct {
	URL      string
	Username string
	Token    string
}

// GitHub holds the API token. Empty means unauthenticated requests,
// which work for public repositories at a lower rate limit.
type GitHub struct {
	Token string
}

// Review holds the engine knobs.
type Review struct {
	FailKeywords   []string
	TestPatterns   []string
	GuidelinesFile string
}

// Config is the merged configuration: defaults < file < environment.
type Config struct {
	AI     AI
	Jira   Jira
	GitHub GitHub
	Review Review
	DBPath string
	Format string
}

// FromViper assembles the configuration from the initialized viper
// instance, applying conventional env fallbacks for credentials.
func FromViper() *Config {
	cfg := &Config{
		AI: AI{
			Provider:  viper.GetString("ai.provider"),
			Model:     viper.GetString("ai.model"),
			APIKey:    viper.GetString("ai.api_key"),
			BaseURL:   viper.GetString("ai.base_url"),
			MaxTokens: viper.GetInt("ai.max_tokens"),
		},
		Jira: Jira{
			URL:      viper.GetString("jira.url"),
			Username: viper.GetString("jira.username"),
			Token:    viper.GetString("jira.token"),
		},
		GitHub: GitHub{
			Token: viper.GetString("github.token"),
		},
		Review: Review{
			FailKeywords:   viper.GetStringSlice("review.fail_keywords"),
			TestPatterns:   viper.GetStringSlice("review.test_patterns"),
			GuidelinesFile: viper.GetString("review.guidelines_file"),
		},
		DBPath: viper.GetString("db_path"),
		Format: viper.GetString("output.format"),
	}

	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case llm.ProviderOpenAI:
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.AI.BaseURL == "" && cfg.AI.Provider == llm.ProviderOllama {
		cfg.AI.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.Jira.URL == "" {
		cfg.Jira.URL = os.Getenv("JIRA_URL")
	}
	if cfg.Jira.Username == "" {
		cfg.Jira.Username = os.Getenv("JIRA_USERNAME")
	}
	if cfg.Jira.Token == "" {
		cfg.Jira.Token = os.Getenv("JIRA_TOKEN")
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	return cfg
}

// ValidateJira checks the settings needed to fetch tickets.
func (c *Config) ValidateJira() error {
	if c.Jira.URL == "" {
		return fmt.Errorf("jira.url is not configured (config file or JIRA_URL)")
	}
	if c.Jira.Username == "" || c.Jira.Token == "" {
		return fmt.Errorf("jira credentials are not configured (jira.username/jira.token or JIRA_USERNAME/JIRA_TOKEN)")
	}
	return nil
}

// ValidateAI checks the settings needed to build a model backend. Ollama
// serves locally and needs no key.
func (c *Config) ValidateAI() error {
	if c.AI.Provider == llm.ProviderOllama {
		return nil
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("no API key configured for provider %q (ai.api_key or the provider's env var)", c.AI.Provider)
	}
	return nil
}

// LLMConfig converts the AI section into the llm package's config.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:  c.AI.Provider,
		Model:     c.AI.Model,
		APIKey:    c.AI.APIKey,
		BaseURL:   c.AI.BaseURL,
		MaxTokens: c.AI.MaxTokens,
	}
}

// Guidelines loads the configured guidelines file. No configured file
// means no guidelines, not an error.
func (c *Config) Guidelines() (string, error) {
	if c.Review.GuidelinesFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Review.GuidelinesFile)
	if err != nil {
		return "", fmt.Errorf("read guidelines file: %w", err)
	}
	return string(data), nil
}
