package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"voicepanel/internal/assistant"
	"voicepanel/internal/command"
	"voicepanel/internal/domain"
	"voicepanel/internal/relay"
	"voicepanel/internal/store"
	"voicepanel/internal/workspace"
)

// PanelController answers the panel's message set using the host services.
// One controller instance owns all relay handlers.
type PanelController struct {
	listener      *Listener
	assistant     *assistant.Assistant
	conversations *store.Conversations
	settings      *store.Settings
	tracker       *workspace.Tracker
	commands      *command.Registry
	relay         *relay.Relay
	log           *slog.Logger
}

func NewPanelController(
	listener *Listener,
	assist *assistant.Assistant,
	conversations *store.Conversations,
	settings *store.Settings,
	tracker *workspace.Tracker,
	commands *command.Registry,
	r *relay.Relay,
	log *slog.Logger,
) *PanelController {
	return &PanelController{
		listener:      listener,
		assistant:     assist,
		conversations: conversations,
		settings:      settings,
		tracker:       tracker,
		commands:      commands,
		relay:         r,
		log:           log,
	}
}

// RegisterHandlers installs one handler per inbound message type.
func (c *PanelController) RegisterHandlers() {
	c.relay.Handle(relay.TypeTranscript, "", c.handleTranscript)
	c.relay.Handle(relay.TypeEditorState, "", c.handleEditorState)
	c.relay.Handle(relay.TypeAIRequest, relay.TypeAIResponse, c.handleAIRequest)
	c.relay.Handle(relay.TypeSettingsGet, relay.TypeSettingsData, c.handleSettingsGet)
	c.relay.Handle(relay.TypeSettingsSave, relay.TypeSettingsSaved, c.handleSettingsSave)
	c.relay.Handle(relay.TypeContextGet, relay.TypeContextData, c.handleContextGet)
	c.relay.Handle(relay.TypeConversationSave, relay.TypeConversationSaved, c.handleConversationSave)
	c.relay.Handle(relay.TypeConversationLoad, relay.TypeConversationData, c.handleConversationLoad)
	c.relay.Handle(relay.TypeConversationList, relay.TypeConversationListData, c.handleConversationList)
	c.relay.Handle(relay.TypeConversationDelete, relay.TypeConversationDeleted, c.handleConversationDelete)
	c.relay.Handle(relay.TypeConversationNew, relay.TypeConversationReset, c.handleConversationNew)
	c.relay.Handle(relay.TypeCommand, "", c.handleCommand)
}

// SendTranscript dispatches the aggregated session transcript as an AI
// request, mirroring a panel-originated ai-request with context enabled.
// Assistant failures answer on the ai-response type like any other request.
func (c *PanelController) SendTranscript(ctx context.Context) error {
	prompt := strings.TrimSpace(c.listener.Transcript())
	if prompt == "" {
		return errors.New("transcript is empty")
	}

	reply, err := c.assistant.Ask(ctx, prompt, true)
	if err != nil {
		c.log.Error("transcript dispatch failed", "error", err)
		c.relay.Emit(relay.NewEnvelope(relay.TypeAIResponse, relay.AIResponsePayload{Error: err.Error()}))
		return nil
	}
	c.relay.Emit(relay.NewEnvelope(relay.TypeAIResponse, relay.AIResponsePayload{
		Response: reply.Text,
		Provider: reply.Provider,
	}))
	return nil
}

// Direct forwards a UI directive to the panel as a command envelope.
func (c *PanelController) Direct(directive string) {
	c.relay.Emit(relay.NewEnvelope(relay.TypeCommand, relay.CommandPayload{Command: directive}))
}

func (c *PanelController) handleTranscript(_ context.Context, env relay.Envelope, _ func(relay.Envelope)) error {
	var payload relay.TranscriptPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode transcript: %w", err)
	}
	c.listener.NoteTranscript(domain.TranscriptEvent{Kind: payload.Kind, Text: payload.Text})
	return nil
}

func (c *PanelController) handleEditorState(_ context.Context, env relay.Envelope, _ func(relay.Envelope)) error {
	var payload relay.EditorStatePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode editor state: %w", err)
	}
	c.tracker.Update(workspace.EditorState{
		Workspace:    payload.Workspace,
		Path:         payload.Path,
		LanguageID:   payload.LanguageID,
		CursorLine:   payload.CursorLine,
		CursorColumn: payload.CursorColumn,
		Selection:    payload.Selection,
	})
	return nil
}

func (c *PanelController) handleAIRequest(ctx context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.AIRequestPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode ai request: %w", err)
	}

	reply, err := c.assistant.Ask(ctx, payload.Prompt, payload.IncludeContext)
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeAIResponse, relay.AIResponsePayload{
		Response: reply.Text,
		Provider: reply.Provider,
	}))
	return nil
}

func (c *PanelController) handleSettingsGet(_ context.Context, _ relay.Envelope, emit func(relay.Envelope)) error {
	settings, err := c.settings.Load()
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeSettingsData, relay.SettingsDataPayload{Settings: settings}))
	return nil
}

func (c *PanelController) handleSettingsSave(_ context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.SettingsSavePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if !payload.Settings.Provider.Valid() {
		return fmt.Errorf("unknown provider: %q", payload.Settings.Provider)
	}

	if err := c.settings.Save(payload.Settings); err != nil {
		return err
	}

	// Clients are rebuilt from the stored values so defaults applied on
	// load take effect immediately.
	loaded, err := c.settings.Load()
	if err != nil {
		return err
	}
	c.assistant.Reload(loaded)

	emit(relay.NewEnvelope(relay.TypeSettingsSaved, relay.SettingsSavedPayload{OK: true}))
	return nil
}

func (c *PanelController) handleContextGet(_ context.Context, _ relay.Envelope, emit func(relay.Envelope)) error {
	snapshot, err := c.tracker.Snapshot()
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeContextData, relay.ContextDataPayload{Context: snapshot}))
	return nil
}

func (c *PanelController) handleConversationSave(_ context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.ConversationSavePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode conversation: %w", err)
	}

	conv, err := c.conversations.Save(payload.ID, payload.Title, payload.Messages)
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeConversationSaved, relay.ConversationSavedPayload{Conversation: conv}))
	return nil
}

func (c *PanelController) handleConversationLoad(_ context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.ConversationLoadPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode conversation load: %w", err)
	}

	conv, err := c.conversations.Load(payload.ID)
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeConversationData, relay.ConversationDataPayload{Conversation: &conv}))
	return nil
}

func (c *PanelController) handleConversationList(_ context.Context, _ relay.Envelope, emit func(relay.Envelope)) error {
	summaries, err := c.conversations.List()
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeConversationListData, relay.ConversationListDataPayload{Conversations: summaries}))
	return nil
}

func (c *PanelController) handleConversationDelete(_ context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.ConversationDeletePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode conversation delete: %w", err)
	}

	removed, err := c.conversations.Delete(payload.ID)
	if err != nil {
		return err
	}
	emit(relay.NewEnvelope(relay.TypeConversationDeleted, relay.ConversationDeletedPayload{ID: payload.ID, Removed: removed}))
	return nil
}

func (c *PanelController) handleConversationNew(_ context.Context, _ relay.Envelope, emit func(relay.Envelope)) error {
	c.listener.ClearTranscript()
	emit(relay.Envelope{Type: relay.TypeConversationReset})
	return nil
}

func (c *PanelController) handleCommand(ctx context.Context, env relay.Envelope, emit func(relay.Envelope)) error {
	var payload relay.CommandPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}

	if err := c.commands.Dispatch(ctx, payload.Command); err != nil {
		c.log.Error("command failed", "command", payload.Command, "error", err)
		emit(relay.NewEnvelope(relay.TypeError, relay.ErrorPayload{
			Code:    domain.ErrorCodeCommand,
			Message: err.Error(),
		}))
	}
	return nil
}
