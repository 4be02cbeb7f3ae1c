package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/kgevidence/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderClaude: "claude-3-5-haiku-latest",
	ProviderGemini: "gemini-1.5-flash",
	ProviderOllama: "llama3.1",
}

// Credentials are the per-request provider keys taken from headers.
type Credentials struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// Factory builds a client per request. Configuration chooses models and base URLs; keys only
// come from the request.
type Factory struct {
	cfg config.LLMConfig
}

func NewFactory(cfg config.LLMConfig) *Factory {
	return &Factory{cfg: cfg}
}

// NewClient picks OpenAI, then Claude, then Gemini by which key is present. Without keys it
// falls back to a configured keyless Ollama, else returns ErrNoProvider.
func (f *Factory) NewClient(ctx context.Context, creds Credentials) (LLMClient, error) {
	switch {
	case creds.OpenAI != "":
		return NewOpenAIClient(creds.OpenAI, f.model(ProviderOpenAI), f.baseURL(ProviderOpenAI)), nil

	case creds.Anthropic != "":
		return NewClaudeClient(creds.Anthropic, f.model(ProviderClaude), f.baseURL(ProviderClaude)), nil

	case creds.Gemini != "":
		return NewGeminiClient(ctx, creds.Gemini, f.model(ProviderGemini))

	case f.provider() == ProviderOllama:
		// Ollama speaks the OpenAI chat API under /v1 and ignores the key.
		baseURL := f.cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		return NewOpenAIClient("ollama", f.model(ProviderOllama), baseURL), nil

	default:
		return nil, ErrNoProvider
	}
}

func (f *Factory) provider() string {
	return strings.ToLower(strings.TrimSpace(f.cfg.Provider))
}

// model honours the configured model only for the configured provider, or for OpenAI when
// no provider is set.
func (f *Factory) model(provider string) string {
	p := f.provider()
	if f.cfg.Model != "" && (p == provider || (p == "" && provider == ProviderOpenAI)) {
		return f.cfg.Model
	}
	return defaultModels[provider]
}

func (f *Factory) baseURL(provider string) string {
	if f.provider() == provider {
		return f.cfg.BaseURL
	}
	return ""
}
