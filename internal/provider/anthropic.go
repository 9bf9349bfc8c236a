package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"hellosleep/internal/config"
)

const anthropicVersion = "2023-06-01"

// Anthropic calls the Messages API.
type Anthropic struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewAnthropic(p config.ProviderConfig, client *http.Client) *Anthropic {
	return &Anthropic{
		name:    p.Name,
		apiKey:  p.APIKey,
		baseURL: strings.TrimRight(p.BaseURL, "/"),
		model:   p.Model,
		client:  client,
	}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) Name() string { return a.name }

func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     a.model,
		MaxTokens: 2000,
		System:    systemPrompt,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", a.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", a.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: http request: %w", a.name, err)
	}
	defer resp.Body.Close()

	body, err := readBody(a.name, resp)
	if err != nil {
		return "", err
	}

	var out messagesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%s: unmarshal response: %w", a.name, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", a.name, out.Error.Message)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%s: %w", a.name, ErrEmptyCompletion)
	}
	return sb.String(), nil
}
