package store

import (
	"fmt"

	"voicepanel/internal/domain"
	"voicepanel/internal/ports"
)

const (
	settingsProviderKey       = "settings/provider"
	settingsAnthropicKeyKey   = "settings/anthropic-key"
	settingsOpenAIKeyKey      = "settings/openai-key"
	settingsAnthropicModelKey = "settings/anthropic-model"
	settingsOpenAIModelKey    = "settings/openai-model"
)

// Model defaults applied when the stored value is empty.
const (
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
	DefaultOpenAIModel    = "gpt-4o"
)

// Settings is the settings half of the persistent store: five scalar values
// read and written wholesale.
type Settings struct {
	kv ports.KeyValue
}

// NewSettings wires the settings store to a key-value backend.
func NewSettings(kv ports.KeyValue) *Settings {
	return &Settings{kv: kv}
}

// Load reads all five settings values, substituting defaults for any that
// were never written. An unrecognized provider value falls back to the
// default rather than failing.
func (s *Settings) Load() (domain.Settings, error) {
	settings := domain.Settings{Provider: domain.ProviderAnthropic}

	provider, err := s.get(settingsProviderKey)
	if err != nil {
		return domain.Settings{}, err
	}
	if p := domain.Provider(provider); p.Valid() {
		settings.Provider = p
	}

	if settings.AnthropicKey, err = s.get(settingsAnthropicKeyKey); err != nil {
		return domain.Settings{}, err
	}
	if settings.OpenAIKey, err = s.get(settingsOpenAIKeyKey); err != nil {
		return domain.Settings{}, err
	}
	if settings.AnthropicModel, err = s.get(settingsAnthropicModelKey); err != nil {
		return domain.Settings{}, err
	}
	if settings.OpenAIModel, err = s.get(settingsOpenAIModelKey); err != nil {
		return domain.Settings{}, err
	}

	if settings.AnthropicModel == "" {
		settings.AnthropicModel = DefaultAnthropicModel
	}
	if settings.OpenAIModel == "" {
		settings.OpenAIModel = DefaultOpenAIModel
	}
	return settings, nil
}

// Save writes all five values in one atomic batch.
func (s *Settings) Save(settings domain.Settings) error {
	entries := map[string][]byte{
		settingsProviderKey:       []byte(settings.Provider),
		settingsAnthropicKeyKey:   []byte(settings.AnthropicKey),
		settingsOpenAIKeyKey:      []byte(settings.OpenAIKey),
		settingsAnthropicModelKey: []byte(settings.AnthropicModel),
		settingsOpenAIModelKey:    []byte(settings.OpenAIModel),
	}
	if err := s.kv.PutAll(entries); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *Settings) get(key string) (string, error) {
	value, ok, err := s.kv.Get(key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return string(value), nil
}
