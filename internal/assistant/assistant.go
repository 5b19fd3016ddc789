// Package assistant enriches prompts with optional code context and
// dispatches them to the provider selected by the current settings.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"voicepanel/internal/domain"
	"voicepanel/internal/ports"
	anthropicprovider "voicepanel/internal/providers/anthropic"
	openaiprovider "voicepanel/internal/providers/openai"
)

// Fixed sampling applied to every request regardless of provider.
const (
	temperature     = 0.7
	maxOutputTokens = 2048
)

const systemInstruction = "You are a concise programming assistant embedded in a code editor. " +
	"Answer the user's question directly. When code context is provided, ground " +
	"your answer in it. Prefer short, specific answers and include code only " +
	"when it helps."

// ErrMissingAPIKey reports that the active provider has no key configured.
// It is raised before any network call is attempted.
var ErrMissingAPIKey = errors.New("no API key configured for the selected provider")

// ContextSource supplies code-context snapshots on demand.
type ContextSource interface {
	Snapshot() (*domain.CodeContext, error)
}

// Factories builds one completion client per provider from an API key.
type Factories map[domain.Provider]func(apiKey string) ports.Completer

// DefaultFactories wires the real provider SDK clients.
func DefaultFactories() Factories {
	return Factories{
		domain.ProviderAnthropic: func(apiKey string) ports.Completer {
			return anthropicprovider.New(apiKey, temperature, maxOutputTokens)
		},
		domain.ProviderOpenAI: func(apiKey string) ports.Completer {
			return openaiprovider.New(apiKey, temperature, maxOutputTokens)
		},
	}
}

// Reply is one completed AI response.
type Reply struct {
	Text     string
	Provider domain.Provider
}

// Assistant owns the provider clients. Clients are rebuilt wholesale by
// Reload whenever settings change and handed to each request explicitly;
// there is no other mutable provider state.
type Assistant struct {
	contextSource ContextSource
	factories     Factories
	log           *slog.Logger

	mu       sync.RWMutex
	settings domain.Settings
	clients  map[domain.Provider]ports.Completer
}

// New builds an assistant with no clients. Call Reload with the stored
// settings before serving requests.
func New(contextSource ContextSource, factories Factories, log *slog.Logger) *Assistant {
	return &Assistant{
		contextSource: contextSource,
		factories:     factories,
		log:           log,
		clients:       map[domain.Provider]ports.Completer{},
	}
}

// Reload replaces the client set from the given settings. Only providers
// with a non-blank API key get a client; the rest stay absent so requests
// fail fast without touching the network.
func (a *Assistant) Reload(settings domain.Settings) {
	clients := make(map[domain.Provider]ports.Completer, len(a.factories))
	for provider, build := range a.factories {
		key := keyFor(settings, provider)
		if strings.TrimSpace(key) == "" {
			continue
		}
		clients[provider] = build(key)
	}

	a.mu.Lock()
	a.settings = settings
	a.clients = clients
	a.mu.Unlock()

	a.log.Info("assistant clients reloaded",
		"provider", settings.Provider,
		"clients", len(clients),
	)
}

// Ask answers one prompt. With includeContext set, a code-context block is
// prepended to the prompt; gathering is best-effort and a failed snapshot
// falls back to the raw prompt. Without it the prompt travels untouched.
func (a *Assistant) Ask(ctx context.Context, prompt string, includeContext bool) (Reply, error) {
	a.mu.RLock()
	settings := a.settings
	client := a.clients[settings.Provider]
	a.mu.RUnlock()

	if client == nil {
		return Reply{}, ErrMissingAPIKey
	}

	enriched := prompt
	if includeContext {
		snapshot, err := a.contextSource.Snapshot()
		if err != nil {
			a.log.Warn("code context unavailable", "error", err)
		} else {
			enriched = enrich(prompt, snapshot)
		}
	}

	text, err := client.Complete(ctx, modelFor(settings), systemInstruction, enriched)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Provider: settings.Provider}, nil
}

func keyFor(settings domain.Settings, provider domain.Provider) string {
	switch provider {
	case domain.ProviderAnthropic:
		return settings.AnthropicKey
	case domain.ProviderOpenAI:
		return settings.OpenAIKey
	default:
		return ""
	}
}

func modelFor(settings domain.Settings) string {
	if settings.Provider == domain.ProviderOpenAI {
		return settings.OpenAIModel
	}
	return settings.AnthropicModel
}
