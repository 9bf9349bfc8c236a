package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hellosleep/internal/config"
)

const sampleCompletion = `{"recommendations":[{"title":"Fix wake time","priority":"high","confidence":0.8}],"summary":{"primaryIssues":["irregular"],"urgency":"medium"}}`

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "hello", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": sampleCompletion}}},
		})
	}))
	defer srv.Close()

	p := NewOpenAI(config.ProviderConfig{Name: "deepseek", APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "deepseek-chat"}, srv.Client())
	out, err := p.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, sampleCompletion, out)
	assert.Equal(t, "deepseek", p.Name())
}

func TestOpenAINon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAI(config.ProviderConfig{Name: "openai", APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := p.Complete(context.Background(), "x")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Error(), "rate limited")
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(config.ProviderConfig{Name: "openai", APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := p.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "ak", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, systemPrompt, req.System)

		w.Write([]byte(`{"content":[{"type":"text","text":"` + "```json\\n" + `{\"recommendations\":[]}` + "\\n```" + `"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropic(config.ProviderConfig{Name: "anthropic", APIKey: "ak", BaseURL: srv.URL, Model: "m"}, srv.Client())
	out, err := p.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "```json"))

	js, ok := ExtractJSON(out)
	require.True(t, ok)
	assert.Equal(t, `{"recommendations":[]}`, js)
}

func TestAnthropicAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropic(config.ProviderConfig{Name: "anthropic", APIKey: "bad", BaseURL: srv.URL}, srv.Client())
	_, err := p.Complete(context.Background(), "hi")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestCompleteHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := NewOpenAI(config.ProviderConfig{Name: "openai", APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := p.Complete(ctx, "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeminiComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": sampleCompletion}},
				},
			}},
		})
	}))
	defer srv.Close()

	p, err := NewGemini(context.Background(), config.ProviderConfig{
		Name: "gemini", APIKey: "g", BaseURL: srv.URL, Model: "gemini-test",
	}, srv.Client())
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, sampleCompletion, out)
}

func TestNewChainSkipsProvidersWithoutKeys(t *testing.T) {
	cfg := config.DefaultAIConfig()
	cfg.Order = []string{"openai", "deepseek", "anthropic"}
	for name, p := range cfg.Providers {
		p.APIKey = ""
		cfg.Providers[name] = p
	}

	_, err := NewChain(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoProviders)

	ds := cfg.Providers["deepseek"]
	ds.APIKey = "k"
	cfg.Providers["deepseek"] = ds
	an := cfg.Providers["anthropic"]
	an.APIKey = "k"
	cfg.Providers["anthropic"] = an

	chain, err := NewChain(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek", "anthropic"}, Names(chain))
}
