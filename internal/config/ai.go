package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider kinds understood by the provider chain
const (
	KindGemini    = "gemini"
	KindOpenAI    = "openai" // any OpenAI-compatible chat endpoint, deepseek included
	KindAnthropic = "anthropic"
)

// ProviderConfig describes one completion backend
type ProviderConfig struct {
	Name    string `yaml:"name" json:"name"`
	Kind    string `yaml:"kind" json:"kind"`
	APIKey  string `yaml:"-" json:"-"` // Never serialize
	BaseURL string `yaml:"baseUrl" json:"baseUrl"`
	Model   string `yaml:"model" json:"model"`
}

// Enabled reports whether the provider has credentials
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	// Order is the provider priority; names refer to Providers entries.
	Order     []string                  `yaml:"order" json:"order"`
	Providers map[string]ProviderConfig `yaml:"providers" json:"providers"`
	TimeoutMS int                       `yaml:"timeoutMs" json:"timeoutMs"`
	// TopFacts caps how many evidence facts go into a prompt
	TopFacts int `yaml:"topFacts" json:"topFacts"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Order: []string{"gemini", "deepseek", "openai", "anthropic"},
		Providers: map[string]ProviderConfig{
			"gemini": {
				Name:  "gemini",
				Kind:  KindGemini,
				Model: "gemini-2.0-flash",
			},
			"deepseek": {
				Name:    "deepseek",
				Kind:    KindOpenAI,
				BaseURL: "https://api.deepseek.com/v1",
				Model:   "deepseek-chat",
			},
			"openai": {
				Name:    "openai",
				Kind:    KindOpenAI,
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
			},
			"anthropic": {
				Name:    "anthropic",
				Kind:    KindAnthropic,
				BaseURL: "https://api.anthropic.com/v1",
				Model:   "claude-3-5-haiku-latest",
			},
		},
		TimeoutMS: 20000,
		TopFacts:  5,
	}
}

func (c *AIConfig) applyEnv() {
	if order := os.Getenv("AI_PROVIDERS"); order != "" {
		c.Order = splitList(order)
	}
	c.TimeoutMS = getEnvInt("AI_TIMEOUT_MS", c.TimeoutMS)
	c.TopFacts = getEnvInt("AI_TOP_FACTS", c.TopFacts)

	for name, p := range c.Providers {
		prefix := strings.ToUpper(name)
		p.APIKey = getEnv(prefix+"_API_KEY", p.APIKey)
		p.BaseURL = getEnv(prefix+"_BASE_URL", p.BaseURL)
		p.Model = getEnv(prefix+"_MODEL", p.Model)
		c.Providers[name] = p
	}
}

// Validate checks that the order only names known providers
func (c *AIConfig) Validate() error {
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("%w: AI_TIMEOUT_MS must be positive", ErrInvalidConfig)
	}
	if c.TopFacts <= 0 {
		return fmt.Errorf("%w: AI_TOP_FACTS must be positive", ErrInvalidConfig)
	}
	for _, name := range c.Order {
		p, ok := c.Providers[name]
		if !ok {
			return fmt.Errorf("%w: AI_PROVIDERS names unknown provider %q", ErrInvalidConfig, name)
		}
		switch p.Kind {
		case KindGemini, KindOpenAI, KindAnthropic:
		default:
			return fmt.Errorf("%w: provider %q has unknown kind %q", ErrInvalidConfig, name, p.Kind)
		}
	}
	return nil
}

// IsEnabled returns true if at least one ordered provider has credentials
func (c *AIConfig) IsEnabled() bool {
	return len(c.Active()) > 0
}

// Active returns the ordered providers that have credentials
func (c *AIConfig) Active() []ProviderConfig {
	var out []ProviderConfig
	for _, name := range c.Order {
		if p, ok := c.Providers[name]; ok && p.Enabled() {
			out = append(out, p)
		}
	}
	return out
}

// Timeout is the per-call provider deadline
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
