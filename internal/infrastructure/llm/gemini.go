package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model, temperature: temperature}, nil
}

// Provider returns "gemini"
func (c *GeminiClient) Provider() string { return ProviderGemini }

// Complete asks for an application/json response
func (c *GeminiClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.temperature),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
