package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// openrouterProvider sends one chat completion per call to OpenRouter's
// OpenAI-compatible endpoint.
type openrouterProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse carries either choices or an error object; OpenRouter also
// reports some failures with a 200 status and an error body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *openrouterProvider) Name() string {
	return "openrouter/" + o.model
}

func (o *openrouterProvider) Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error) {
	body, err := json.Marshal(o.newChatRequest(prompt, opts))
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/ggsatyam/meowpass")
	httpReq.Header.Set("X-Title", "meowpass")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading openrouter response: %w", err)
	}
	return parseChatReply(resp.StatusCode, raw)
}

func (o *openrouterProvider) newChatRequest(prompt string, opts CompletionOpts) chatRequest {
	req := chatRequest{Model: o.model, Temperature: opts.Temperature}
	if opts.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: opts.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt})
	return req
}

// parseChatReply returns the first choice's text, or an error naming what the
// API reported.
func parseChatReply(status int, raw []byte) (string, error) {
	var cr chatResponse
	decodeErr := json.Unmarshal(raw, &cr)

	if status != http.StatusOK {
		if decodeErr == nil && cr.Error != nil && cr.Error.Message != "" {
			return "", fmt.Errorf("openrouter API error (status %d): %s", status, cr.Error.Message)
		}
		return "", fmt.Errorf("openrouter API error (status %d): %s", status, strings.TrimSpace(string(raw)))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("parsing openrouter response: %w", decodeErr)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openrouter API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	text := strings.TrimSpace(cr.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openrouter returned an empty completion")
	}
	return text, nil
}
