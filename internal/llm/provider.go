// Package llm provides the generative-text providers used for AI-assisted
// wordlist enhancement: Google Gemini and OpenRouter.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnavailable means a provider could not be constructed: unknown name,
// missing API key or missing model.
var ErrUnavailable = errors.New("llm provider unavailable")

// Provider is the interface for LLM completions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
	// Name returns a human-readable provider name (e.g., "google/gemini-2.5-flash").
	Name() string
}

// CompletionOpts configures a single completion request.
type CompletionOpts struct {
	System      string  // System prompt (optional)
	Temperature float64 // 0.0-2.0
}

// Config holds provider configuration.
type Config struct {
	Provider string // "google", "openrouter"
	Model    string // e.g., "gemini-2.5-flash", "mistralai/mistral-7b-instruct"
	APIKey   string // API key (empty = read from env)
	BaseURL  string // Optional URL override
}

const (
	ProviderGoogle     = "google"
	ProviderOpenRouter = "openrouter"

	DefaultGoogleModel = "gemini-2.5-flash"
)

// NewProvider creates an LLM provider from the given config.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGoogle:
		key := firstEnv(cfg.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: google provider requires an API key (GEMINI_API_KEY or GOOGLE_API_KEY)", ErrUnavailable)
		}
		model := cfg.Model
		if model == "" {
			model = DefaultGoogleModel
		}
		return newGoogleProvider(key, model, cfg.BaseURL)

	case ProviderOpenRouter:
		key := firstEnv(cfg.APIKey, "OPENROUTER_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: openrouter provider requires an API key (OPENROUTER_API_KEY)", ErrUnavailable)
		}
		if strings.TrimSpace(cfg.Model) == "" {
			return nil, fmt.Errorf("%w: openrouter provider requires a model (e.g. mistralai/mistral-7b-instruct)", ErrUnavailable)
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return &openrouterProvider{
			apiKey:  key,
			model:   strings.TrimSpace(cfg.Model),
			baseURL: strings.TrimRight(baseURL, "/"),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q (supported: google, openrouter)", ErrUnavailable, cfg.Provider)
	}
}

// ParseLLMFlag parses a --llm flag value into a Config.
// Format: "provider/model" e.g., "google/gemini-2.5-flash",
// "openrouter/mistralai/mistral-7b-instruct". A bare "google" selects the
// default Gemini model.
func ParseLLMFlag(flag string) (Config, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" || strings.EqualFold(flag, ProviderGoogle) {
		return Config{Provider: ProviderGoogle, Model: DefaultGoogleModel}, nil
	}

	parts := strings.SplitN(flag, "/", 2)
	if len(parts) < 2 || parts[1] == "" {
		return Config{}, fmt.Errorf("invalid --llm format %q: expected provider/model (e.g., openrouter/mistralai/mistral-7b-instruct)", flag)
	}

	provider := strings.ToLower(parts[0])
	switch provider {
	case ProviderGoogle, ProviderOpenRouter:
		return Config{Provider: provider, Model: parts[1]}, nil
	default:
		return Config{}, fmt.Errorf("unknown provider %q in --llm flag (supported: google, openrouter)", provider)
	}
}

// ProviderForChoice maps the interactive menu selector to a provider name.
func ProviderForChoice(choice string) (string, bool) {
	switch strings.TrimSpace(choice) {
	case "1":
		return ProviderGoogle, true
	case "2":
		return ProviderOpenRouter, true
	}
	return "", false
}

func firstEnv(explicit string, envKeys ...string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	for _, k := range envKeys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
