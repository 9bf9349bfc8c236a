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

// OpenAI talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, DeepSeek).
type OpenAI struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAI(p config.ProviderConfig, client *http.Client) *OpenAI {
	return &OpenAI{
		name:    p.Name,
		apiKey:  p.APIKey,
		baseURL: strings.TrimRight(p.BaseURL, "/"),
		model:   p.Model,
		client:  client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", o.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", o.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: http request: %w", o.name, err)
	}
	defer resp.Body.Close()

	body, err := readBody(o.name, resp)
	if err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%s: unmarshal response: %w", o.name, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", o.name, out.Error.Message)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", o.name, ErrEmptyCompletion)
	}
	return out.Choices[0].Message.Content, nil
}
