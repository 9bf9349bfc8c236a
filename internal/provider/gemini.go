package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"hellosleep/internal/config"
)

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	name   string
	model  string
	client *genai.Client
}

// NewGemini creates a Gemini provider. A non-empty BaseURL overrides the API host.
func NewGemini(ctx context.Context, p config.ProviderConfig, httpClient *http.Client) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:     p.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if p.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{name: p.Name, model: p.Model, client: client}, nil
}

func (g *Gemini) Name() string { return g.name }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%s: generate content: %w", g.name, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", g.name, ErrEmptyCompletion)
	}
	return text, nil
}
