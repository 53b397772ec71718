package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// Provider identifiers. The set is closed and small; no open-ended
// registration is needed.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Both vendors expose OpenAI-compatible chat completion endpoints, so a
// single openai-backed chat model serves the whole set.
type Config struct {
	Default string `envconfig:"DEFAULT_LLM_PROVIDER" split_words:"true" default:"claude"`

	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY" split_words:"true"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" split_words:"true" default:"claude-3-5-sonnet-20241022"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL" split_words:"true" default:"https://api.anthropic.com/v1"`

	GoogleAPIKey  string `envconfig:"GOOGLE_API_KEY" split_words:"true"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" split_words:"true" default:"gemini-1.5-pro"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" split_words:"true" default:"https://generativelanguage.googleapis.com/v1beta/openai"`

	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type handle struct {
	name  string
	model model.BaseChatModel
}

func (h *handle) Name() string { return h.name }

// Gateway resolves provider identifiers to chat models and invokes them.
// Resolved models are cached; the cache is safe for concurrent requests.
type Gateway struct {
	cfg Config

	mu     sync.Mutex
	models map[string]model.BaseChatModel
}

var _ contractx.Gateway = (*Gateway)(nil)

func New(cfg Config) *Gateway {
	return &Gateway{
		cfg:    cfg,
		models: make(map[string]model.BaseChatModel, 2),
	}
}

// Default returns the configured default provider identifier.
func (g *Gateway) Default() string {
	return strings.TrimSpace(g.cfg.Default)
}

func (g *Gateway) ListAvailable() []string {
	available := make([]string, 0, 2)
	if isRealKey(g.cfg.AnthropicAPIKey) {
		available = append(available, ProviderClaude)
	}
	if isRealKey(g.cfg.GoogleAPIKey) {
		available = append(available, ProviderGemini)
	}
	return available
}

func (g *Gateway) Resolve(ctx context.Context, identifier string) (contractx.ProviderHandle, error) {
	name := strings.TrimSpace(identifier)
	if name == "" {
		name = g.Default()
	}

	if len(g.ListAvailable()) == 0 {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or GOOGLE_API_KEY", contractx.ErrNoProvider)
	}

	var key string
	switch name {
	case ProviderClaude:
		key = g.cfg.AnthropicAPIKey
	case ProviderGemini:
		key = g.cfg.GoogleAPIKey
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", contractx.ErrProviderUnavailable, name)
	}
	if !isRealKey(key) {
		return nil, fmt.Errorf("%w: provider %q has no usable credentials", contractx.ErrProviderUnavailable, name)
	}

	chatModel, err := g.chatModel(ctx, name)
	if err != nil {
		return nil, err
	}
	return &handle{name: name, model: chatModel}, nil
}

func (g *Gateway) chatModel(ctx context.Context, name string) (model.BaseChatModel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if m, ok := g.models[name]; ok {
		return m, nil
	}

	conf := &openaimodel.ChatModelConfig{
		MaxTokens: &g.cfg.MaxCompletionToken,
		Timeout:   g.cfg.Timeout,
	}
	switch name {
	case ProviderClaude:
		conf.BaseURL = strings.TrimRight(g.cfg.AnthropicBaseURL, "/")
		conf.APIKey = strings.TrimSpace(g.cfg.AnthropicAPIKey)
		conf.Model = strings.TrimSpace(g.cfg.AnthropicModel)
	case ProviderGemini:
		conf.BaseURL = strings.TrimRight(g.cfg.GeminiBaseURL, "/")
		conf.APIKey = strings.TrimSpace(g.cfg.GoogleAPIKey)
		conf.Model = strings.TrimSpace(g.cfg.GeminiModel)
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s chat model: %v", contractx.ErrModelInvoke, name, err)
	}
	g.models[name] = m
	return m, nil
}

func (g *Gateway) Invoke(
	ctx context.Context,
	h contractx.ProviderHandle,
	messages []*schema.Message,
	temperature float32,
) (string, error) {
	ph, ok := h.(*handle)
	if !ok || ph.model == nil {
		return "", fmt.Errorf("%w: provider handle is not resolved", contractx.ErrValidation)
	}

	resp, err := ph.model.Generate(ctx, messages, model.WithTemperature(temperature))
	if err != nil {
		if isAuthError(err) {
			return "", fmt.Errorf("%w: provider=%s: %v", contractx.ErrAuthentication, ph.name, err)
		}
		return "", fmt.Errorf("%w: provider=%s: %v", contractx.ErrModelInvoke, ph.name, err)
	}

	text := NormalizeContent(resp)
	log.Debug().Str("provider", ph.name).Int("response_len", len(text)).Msg("model invoke completed")
	return text, nil
}

var placeholderPrefixes = []string{"your_", "sk-placeholder", "change-", "xxx", "TODO"}

// isRealKey reports whether a credential looks usable rather than a
// placeholder left in an env file. It is a heuristic, not a live check.
func isRealKey(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return false
		}
	}
	switch key {
	case "none", "null", "undefined":
		return false
	}
	return len(key) >= 20
}

var authErrorPhrases = []string{
	"authentication",
	"api key",
	"api-key",
	"unauthorized",
	"invalid x-api-key",
	"401",
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range authErrorPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
