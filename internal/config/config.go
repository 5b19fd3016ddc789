package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config stores host-side runtime configuration. User-facing settings
// (provider, keys, models) live in the persistent store instead; this file
// only covers wiring that must exist before the store is open.
type Config struct {
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Audio      AudioConfig      `yaml:"audio"`
	Rules      RulesConfig      `yaml:"rules"`
	Store      StoreConfig      `yaml:"store"`
	Session    SessionConfig    `yaml:"session"`
}

type RecognizerConfig struct {
	APIKey      string `yaml:"apiKey"`
	APIBaseURL  string `yaml:"apiBaseUrl"`
	Model       string `yaml:"model"`
	Language    string `yaml:"language"`
	SmartFormat bool   `yaml:"smartFormat"`
}

type AudioConfig struct {
	RecorderCommand string `yaml:"recorderCommand"`
	InputFormat     string `yaml:"inputFormat"`
	InputDevice     string `yaml:"inputDevice"`
	SampleRate      int    `yaml:"sampleRate"`
	Channels        int    `yaml:"channels"`
}

type RulesConfig struct {
	Path           string `yaml:"path"`
	IterationLimit int    `yaml:"iterationLimit"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	ChunkSize        int `yaml:"chunkSize"`
	StreamingGraceMS int `yaml:"streamingGraceMs"`
}

// Default returns the built-in configuration before any file or environment
// overrides are applied.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	return Config{
		Recognizer: RecognizerConfig{
			APIBaseURL:  "https://api.deepgram.com/v1",
			Model:       "nova-2",
			SmartFormat: true,
		},
		Audio: AudioConfig{
			RecorderCommand: "ffmpeg",
			InputFormat:     "pulse",
			InputDevice:     "default",
			SampleRate:      16000,
			Channels:        1,
		},
		Rules: RulesConfig{
			Path:           filepath.Join(home, ".config", "voicepanel", "substitutions.rules"),
			IterationLimit: 30,
		},
		Store: StoreConfig{
			Path: filepath.Join(home, ".local", "share", "voicepanel", "voicepanel.db"),
		},
		Session: SessionConfig{
			ChunkSize:        4096,
			StreamingGraceMS: 1000,
		},
	}, nil
}

// Load resolves configuration from defaults, an optional YAML file and
// environment variables, in that order. An empty path falls back to
// ~/.config/voicepanel/config.yaml; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.New("could not determine home directory")
		}
		path = filepath.Join(home, ".config", "voicepanel", "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults plus environment only
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	clamp(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Recognizer.APIKey = firstNonEmpty(
		os.Getenv("VOICEPANEL_RECOGNIZER_API_KEY"),
		os.Getenv("DEEPGRAM_API_KEY"),
		cfg.Recognizer.APIKey,
	)
	cfg.Recognizer.APIBaseURL = envOrDefault("VOICEPANEL_RECOGNIZER_API_BASE", cfg.Recognizer.APIBaseURL)
	cfg.Recognizer.Model = envOrDefault("VOICEPANEL_RECOGNIZER_MODEL", cfg.Recognizer.Model)
	cfg.Recognizer.Language = envOrDefault("VOICEPANEL_RECOGNIZER_LANGUAGE", cfg.Recognizer.Language)
	cfg.Recognizer.SmartFormat = envOrDefaultBool("VOICEPANEL_RECOGNIZER_SMART_FORMAT", cfg.Recognizer.SmartFormat)

	cfg.Audio.RecorderCommand = envOrDefault("VOICEPANEL_FFMPEG_COMMAND", cfg.Audio.RecorderCommand)
	cfg.Audio.InputFormat = envOrDefault("VOICEPANEL_AUDIO_INPUT_FORMAT", cfg.Audio.InputFormat)
	cfg.Audio.InputDevice = envOrDefault("VOICEPANEL_AUDIO_INPUT_DEVICE", cfg.Audio.InputDevice)
	cfg.Audio.SampleRate = envOrDefaultInt("VOICEPANEL_SAMPLE_RATE", cfg.Audio.SampleRate)
	cfg.Audio.Channels = envOrDefaultInt("VOICEPANEL_CHANNELS", cfg.Audio.Channels)

	cfg.Rules.Path = envOrDefault("VOICEPANEL_RULES_FILE", cfg.Rules.Path)
	cfg.Rules.IterationLimit = envOrDefaultInt("VOICEPANEL_RULE_ITERATION_LIMIT", cfg.Rules.IterationLimit)

	cfg.Store.Path = envOrDefault("VOICEPANEL_STORE_PATH", cfg.Store.Path)

	cfg.Session.ChunkSize = envOrDefaultInt("VOICEPANEL_AUDIO_CHUNK_SIZE", cfg.Session.ChunkSize)
	cfg.Session.StreamingGraceMS = envOrDefaultInt("VOICEPANEL_STREAMING_GRACE_MS", cfg.Session.StreamingGraceMS)
}

func clamp(cfg *Config) {
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Rules.IterationLimit <= 0 {
		cfg.Rules.IterationLimit = 30
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Session.StreamingGraceMS < 0 {
		cfg.Session.StreamingGraceMS = 1000
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
