package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"voicepanel/internal/bootstrap"
	"voicepanel/internal/command"
	"voicepanel/internal/config"
	"voicepanel/internal/domain"
	"voicepanel/internal/ports"
	"voicepanel/internal/relay"
	"voicepanel/internal/usecase"
)

// eventMessage is the single outbound event topic. Every host-originated
// envelope travels on it; the panel posts inbound envelopes through Post.
const eventMessage = "voicepanel:message"

// App is the Wails application root. It adapts the runtime event bus to the
// relay sink and the listener's event sink.
type App struct {
	ctx context.Context
	log *slog.Logger

	relay    *relay.Relay
	listener *usecase.Listener
	commands *command.Registry
	store    ports.KeyValue
	cfg      config.Config
	bootErr  error
}

func NewApp() *App {
	return &App{log: newLogger()}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
}

// logLevel is read from the environment rather than the config file because
// the logger must exist before configuration loads.
func logLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("VOICEPANEL_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(bootstrap.Deps{
		Sink:      a,
		Events:    a,
		ShowPanel: a.showWindow,
		Log:       a.log,
	})
	if err != nil {
		a.bootErr = err
		a.log.Error("startup failed", "error", err)
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.relay = services.Relay
	a.listener = services.Listener
	a.commands = services.Commands
	a.store = services.Store
	a.cfg = services.Config

	a.Emit(relay.NewEnvelope(relay.TypeStatus, relay.StatusPayload{State: domain.ListeningStateIdle}))
}

func (a *App) shutdown(_ context.Context) {
	if a.listener != nil && a.listener.Active() {
		_ = a.listener.Stop(context.Background())
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// Post delivers one panel envelope to the relay. This is the single inbound
// entry point for panel traffic.
func (a *App) Post(env relay.Envelope) {
	if a.bootErr != nil {
		a.Emit(errorEnvelope(domain.ErrorCodeStartup, a.bootErr.Error()))
		return
	}
	if a.relay == nil {
		a.Emit(relay.NewEnvelope(relay.TypeError, relay.ErrorPayload{Message: "application is not initialized"}))
		return
	}
	a.relay.Dispatch(a.ctx, env)
}

// GetStatus returns the current listening status.
func (a *App) GetStatus() domain.Status {
	if a.listener == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.ListeningStateError, Active: false, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.ListeningStateIdle, Active: false}
	}
	return a.listener.Status()
}

// CommandInfo describes one action for the panel's command and keybinding UI.
type CommandInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Accelerator string `json:"accelerator,omitempty"`
}

// GetCommands returns the action surface for the panel to bind keys against.
func (a *App) GetCommands() []CommandInfo {
	if a.commands == nil {
		return nil
	}
	actions := a.commands.Actions()
	out := make([]CommandInfo, 0, len(actions))
	for _, action := range actions {
		out = append(out, CommandInfo{
			Name:        action.Name,
			Title:       action.Title,
			Accelerator: action.Accelerator,
		})
	}
	return out
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"recognizerModel":  a.cfg.Recognizer.Model,
		"recognizerLang":   a.cfg.Recognizer.Language,
		"rulesFile":        a.cfg.Rules.Path,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
		"storePath":        a.cfg.Store.Path,
	}
}

// Emit sends one envelope to the panel over the runtime event bus.
func (a *App) Emit(env relay.Envelope) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventMessage, env)
}

// ListeningStateChanged emits listening lifecycle updates to the panel.
func (a *App) ListeningStateChanged(state domain.ListeningState) {
	a.Emit(listeningEnvelope(state))
}

// Transcript emits live transcript deltas to the panel.
func (a *App) Transcript(ev domain.TranscriptEvent) {
	a.Emit(transcriptEnvelope(ev))
}

// SessionError emits backend errors to the panel.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	a.Emit(errorEnvelope(code, detail))
}

func listeningEnvelope(state domain.ListeningState) relay.Envelope {
	return relay.NewEnvelope(relay.TypeListening, relay.ListeningPayload{State: state})
}

func transcriptEnvelope(ev domain.TranscriptEvent) relay.Envelope {
	return relay.NewEnvelope(relay.TypeTranscript, relay.TranscriptPayload{Kind: ev.Kind, Text: ev.Text})
}

func errorEnvelope(code domain.ErrorCode, detail string) relay.Envelope {
	return relay.NewEnvelope(relay.TypeError, relay.ErrorPayload{
		Code:    code,
		Message: errorMessage(code, detail),
		Detail:  detail,
	})
}

func (a *App) showWindow() {
	if a.ctx == nil {
		return
	}
	runtime.WindowShow(a.ctx)
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeAudioStream:
		return "Audio streaming issue"
	case domain.ErrorCodeRecognizer:
		return "Speech recognition error"
	case domain.ErrorCodeAssistant:
		return "Assistant request failed"
	case domain.ErrorCodeStore:
		return "Storage error"
	case domain.ErrorCodeCommand:
		return "Command failed"
	case domain.ErrorCodeRules:
		return "Rules processing failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
