package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// googleProvider implements Provider using the Gemini API through the genai SDK.
type googleProvider struct {
	client *genai.Client
	model  string
}

func newGoogleProvider(apiKey, model, baseURL string) (*googleProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("%w: creating genai client: %v", ErrUnavailable, err)
	}
	return &googleProvider{client: client, model: model}, nil
}

func (g *googleProvider) Name() string {
	return "google/" + g.model
}

func (g *googleProvider) Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.System != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from google API")
	}
	return text, nil
}
