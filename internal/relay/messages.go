package relay

import "voicepanel/internal/domain"

// Payload shapes for the closed message set. Reply payloads carry an Error
// field so a failed operation answers on the same type as success.

// TranscriptPayload travels both directions: panel-posted deltas inbound,
// recognizer results outbound.
type TranscriptPayload struct {
	Kind domain.TranscriptKind `json:"kind"`
	Text string                `json:"text"`
}

// EditorStatePayload reports the active editor document. Fire-and-forget;
// the host keeps only the latest snapshot.
type EditorStatePayload struct {
	Workspace    string `json:"workspace"`
	Path         string `json:"path"`
	LanguageID   string `json:"languageId"`
	CursorLine   int    `json:"cursorLine"`
	CursorColumn int    `json:"cursorColumn"`
	Selection    string `json:"selection,omitempty"`
}

type AIRequestPayload struct {
	Prompt         string `json:"prompt"`
	IncludeContext bool   `json:"includeContext"`
}

type AIResponsePayload struct {
	Response string          `json:"response,omitempty"`
	Provider domain.Provider `json:"provider,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type SettingsDataPayload struct {
	Settings domain.Settings `json:"settings"`
	Error    string          `json:"error,omitempty"`
}

type SettingsSavePayload struct {
	Settings domain.Settings `json:"settings"`
}

type SettingsSavedPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type ContextDataPayload struct {
	Context *domain.CodeContext `json:"context"`
	Error   string              `json:"error,omitempty"`
}

type ConversationSavePayload struct {
	ID       string           `json:"id,omitempty"`
	Title    string           `json:"title,omitempty"`
	Messages []domain.Message `json:"messages"`
}

type ConversationSavedPayload struct {
	Conversation domain.Conversation `json:"conversation"`
	Error        string              `json:"error,omitempty"`
}

type ConversationLoadPayload struct {
	ID string `json:"id"`
}

type ConversationDataPayload struct {
	Conversation *domain.Conversation `json:"conversation"`
	Error        string               `json:"error,omitempty"`
}

type ConversationListDataPayload struct {
	Conversations []domain.Summary `json:"conversations"`
	Error         string           `json:"error,omitempty"`
}

type ConversationDeletePayload struct {
	ID string `json:"id"`
}

type ConversationDeletedPayload struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
	Error   string `json:"error,omitempty"`
}

type ListeningPayload struct {
	State domain.ListeningState `json:"state"`
}

type StatusPayload struct {
	State   domain.ListeningState `json:"state"`
	Active  bool                  `json:"active"`
	Message string                `json:"message,omitempty"`
}

type ErrorPayload struct {
	Code    domain.ErrorCode `json:"code,omitempty"`
	Message string           `json:"message"`
	Detail  string           `json:"detail,omitempty"`
}

type CommandPayload struct {
	Command string `json:"command"`
}
