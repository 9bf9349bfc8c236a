// Package provider wraps the external text-generation services used by the
// recommendation pipeline. Every backend reduces to Complete(prompt) -> text.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hellosleep/internal/config"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 1 << 20

var (
	ErrEmptyCompletion = errors.New("empty completion")
	ErrNoProviders     = errors.New("no completion providers configured")
)

// Provider is one completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// New builds the provider for one configuration entry.
func New(ctx context.Context, p config.ProviderConfig, timeout time.Duration) (Provider, error) {
	if !p.Enabled() {
		return nil, fmt.Errorf("provider %s: API key is required", p.Name)
	}
	client := &http.Client{Timeout: timeout}
	switch p.Kind {
	case config.KindGemini:
		return NewGemini(ctx, p, client)
	case config.KindOpenAI:
		return NewOpenAI(p, client), nil
	case config.KindAnthropic:
		return NewAnthropic(p, client), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown kind %q", p.Name, p.Kind)
	}
}

// NewChain builds providers in configured order, skipping entries without
// credentials or that fail to initialize. An empty chain is not an error for
// callers that can fall back; it is reported as ErrNoProviders for those that can't.
func NewChain(ctx context.Context, cfg *config.AIConfig, log *zap.Logger) ([]Provider, error) {
	if !cfg.IsEnabled() {
		return nil, ErrNoProviders
	}
	var chain []Provider
	for _, pc := range cfg.Active() {
		p, err := New(ctx, pc, cfg.Timeout())
		if err != nil {
			log.Warn("provider skipped", zap.String("provider", pc.Name), zap.Error(err))
			continue
		}
		chain = append(chain, p)
	}
	if len(chain) == 0 {
		return nil, ErrNoProviders
	}
	return chain, nil
}

// Names lists provider names in chain order.
func Names(chain []Provider) []string {
	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = p.Name()
	}
	return names
}

// readBody reads at most maxResponseBytes and turns non-2xx into a StatusError.
func readBody(name string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &StatusError{Provider: name, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
