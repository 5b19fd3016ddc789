package domain

import "time"

// Provider selects which completion API answers AI requests.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Valid reports whether p is one of the two supported providers.
func (p Provider) Valid() bool {
	return p == ProviderAnthropic || p == ProviderOpenAI
}

// Settings is the user-facing configuration kept in the host key-value store:
// the provider selector plus an API key and model name per provider. It is
// read and written wholesale.
type Settings struct {
	Provider       Provider `json:"provider"`
	AnthropicKey   string   `json:"anthropicKey"`
	OpenAIKey      string   `json:"openaiKey"`
	AnthropicModel string   `json:"anthropicModel"`
	OpenAIModel    string   `json:"openaiModel"`
}

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CodeContext is a best-effort snapshot of the active editor document.
// It is recomputed on demand and never persisted on its own.
type CodeContext struct {
	Workspace    string `json:"workspace"`
	FileName     string `json:"fileName"`
	RelativePath string `json:"relativePath"`
	LanguageID   string `json:"languageId"`
	CursorLine   int    `json:"cursorLine"`
	CursorColumn int    `json:"cursorColumn"`
	Selection    string `json:"selection,omitempty"`
	Excerpt      string `json:"excerpt"`
	Windowed     bool   `json:"windowed"`
}

// Message is a single turn inside a conversation.
type Message struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	Role       Role         `json:"role"`
	Content    string       `json:"content"`
	Provider   Provider     `json:"provider,omitempty"`
	HasContext bool         `json:"hasContext,omitempty"`
	Context    *CodeContext `json:"context,omitempty"`
}

// Conversation is the persisted record of one panel session.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages"`
}

// Summary is the listing view of a conversation. It never carries message
// bodies, only the count.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

// ListeningState models the speech capture lifecycle.
type ListeningState string

const (
	ListeningStateIdle      ListeningState = "idle"
	ListeningStateListening ListeningState = "listening"
	ListeningStateError     ListeningState = "error"
)

// TranscriptKind identifies whether a stream event is partial or final text.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent represents incremental transcription output from a provider.
type TranscriptEvent struct {
	Kind TranscriptKind `json:"kind"`
	Text string         `json:"text"`
}

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeAudioStream ErrorCode = "audio_stream"
	ErrorCodeRecognizer  ErrorCode = "recognizer"
	ErrorCodeAssistant   ErrorCode = "assistant"
	ErrorCodeStore       ErrorCode = "store"
	ErrorCodeCommand     ErrorCode = "command"
	ErrorCodeRules       ErrorCode = "rules"
)

// Status summarizes the current runtime status.
type Status struct {
	State   ListeningState `json:"state"`
	Active  bool           `json:"active"`
	Message string         `json:"message,omitempty"`
}
