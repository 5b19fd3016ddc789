package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"voicepanel/internal/assistant"
	"voicepanel/internal/audio"
	"voicepanel/internal/command"
	"voicepanel/internal/config"
	"voicepanel/internal/ports"
	"voicepanel/internal/relay"
	"voicepanel/internal/rules"
	"voicepanel/internal/speech"
	"voicepanel/internal/storage/bolt"
	"voicepanel/internal/store"
	"voicepanel/internal/usecase"
	"voicepanel/internal/workspace"
)

// Services is the assembled runtime graph.
type Services struct {
	Relay     *relay.Relay
	Listener  *usecase.Listener
	Panel     *usecase.PanelController
	Assistant *assistant.Assistant
	Commands  *command.Registry
	Store     ports.KeyValue
	Config    config.Config
}

// Deps are the host capabilities the graph cannot build itself: the outbound
// envelope sink, the event sink, and the window-show hook for commands.
type Deps struct {
	Sink      relay.Sink
	Events    ports.EventSink
	ShowPanel func()
	Log       *slog.Logger
}

// Build wires all backend dependencies for the current runtime.
func Build(deps Deps) (Services, error) {
	cfg, err := config.Load("")
	if err != nil {
		return Services{}, err
	}

	kv, err := bolt.Open(cfg.Store.Path)
	if err != nil {
		return Services{}, fmt.Errorf("open store: %w", err)
	}

	conversations := store.NewConversations(kv)
	settingsStore := store.NewSettings(kv)
	tracker := workspace.NewTracker()

	assist := assistant.New(tracker, assistant.DefaultFactories(), deps.Log)
	settings, err := settingsStore.Load()
	if err != nil {
		_ = kv.Close()
		return Services{}, fmt.Errorf("load settings: %w", err)
	}
	assist.Reload(settings)

	rulesEngine, err := rules.NewEngine(cfg.Rules.Path, cfg.Rules.IterationLimit)
	if err != nil {
		_ = kv.Close()
		return Services{}, err
	}

	listener := usecase.NewListener(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		speech.NewRecognizer(speech.Config{
			APIKey:      cfg.Recognizer.APIKey,
			APIBaseURL:  cfg.Recognizer.APIBaseURL,
			Model:       cfg.Recognizer.Model,
			Language:    cfg.Recognizer.Language,
			SmartFormat: cfg.Recognizer.SmartFormat,
		}),
		rulesEngine,
		deps.Events,
		usecase.ListenerConfig{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Streaming: ports.StreamingConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				InterimResults: true,
			},
			ChunkSize:      cfg.Session.ChunkSize,
			StreamingGrace: time.Duration(cfg.Session.StreamingGraceMS) * time.Millisecond,
		},
	)

	r := relay.New(deps.Sink, deps.Log)
	registry := command.NewRegistry()
	panel := usecase.NewPanelController(listener, assist, conversations, settingsStore, tracker, registry, r, deps.Log)

	show := deps.ShowPanel
	if show == nil {
		show = func() {}
	}
	if err := command.RegisterBuiltins(registry, command.Deps{
		ShowPanel:       show,
		ToggleListening: listener.Toggle,
		SendToAI:        panel.SendTranscript,
		ClearTranscript: listener.ClearTranscript,
		DirectPanel:     panel.Direct,
	}); err != nil {
		_ = kv.Close()
		return Services{}, err
	}
	panel.RegisterHandlers()

	return Services{
		Relay:     r,
		Listener:  listener,
		Panel:     panel,
		Assistant: assist,
		Commands:  registry,
		Store:     kv,
		Config:    cfg,
	}, nil
}
