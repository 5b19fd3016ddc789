// Package relay carries the type-tagged message channel between the panel
// and the host controller. One envelope shape travels both directions;
// payloads are opaque JSON owned by the registered handlers.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Message types drawn from the closed envelope set.
const (
	TypeTranscript           = "transcript"
	TypeEditorState          = "editor-state"
	TypeAIRequest            = "ai-request"
	TypeAIResponse           = "ai-response"
	TypeSettingsGet          = "settings-get"
	TypeSettingsData         = "settings-data"
	TypeSettingsSave         = "settings-save"
	TypeSettingsSaved        = "settings-saved"
	TypeContextGet           = "context-get"
	TypeContextData          = "context-data"
	TypeConversationSave     = "conversation-save"
	TypeConversationSaved    = "conversation-saved"
	TypeConversationLoad     = "conversation-load"
	TypeConversationData     = "conversation-data"
	TypeConversationList     = "conversation-list"
	TypeConversationListData = "conversation-list-data"
	TypeConversationDelete   = "conversation-delete"
	TypeConversationDeleted  = "conversation-deleted"
	TypeConversationNew      = "conversation-new"
	TypeConversationReset    = "conversation-reset"
	TypeListening            = "listening"
	TypeStatus               = "status"
	TypeError                = "error"
	TypeCommand              = "command"
)

// Envelope is one message on the channel. ID is an optional correlation
// identifier: replies echo the request's ID so concurrent requests of the
// same type stay distinguishable. ID-less traffic falls back to type-only
// matching on the panel side.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Sink delivers host-originated envelopes to the panel.
type Sink interface {
	Emit(env Envelope)
}

// NewEnvelope builds an envelope carrying the marshaled payload.
func NewEnvelope(msgType string, payload any) Envelope {
	return Envelope{Type: msgType, Payload: mustMarshal(payload)}
}

// Handler processes one inbound envelope. Replies go through emit; a handler
// may emit zero, one, or several envelopes. Returning an error makes the
// relay emit a failed reply on the handler's registered reply type.
type Handler func(ctx context.Context, env Envelope, emit func(Envelope)) error

type registration struct {
	handle Handler
	// replyType is the envelope type used for failure replies. Empty for
	// fire-and-forget handlers, whose failures surface as error envelopes.
	replyType string
}

// Relay routes inbound envelopes to per-type handlers. Delivery is
// at-most-once and unordered when concurrent; there is no retry, timeout,
// or queuing.
type Relay struct {
	mu       sync.RWMutex
	handlers map[string]registration
	sink     Sink
	log      *slog.Logger
}

// New builds a relay emitting through sink.
func New(sink Sink, log *slog.Logger) *Relay {
	return &Relay{
		handlers: make(map[string]registration),
		sink:     sink,
		log:      log,
	}
}

// Handle registers the handler for one message type. replyType names the
// envelope type for failure replies; pass an empty string for fire-and-forget
// messages.
func (r *Relay) Handle(msgType string, replyType string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[msgType] = registration{handle: handler, replyType: replyType}
}

// Emit sends one host-originated envelope to the panel.
func (r *Relay) Emit(env Envelope) {
	r.sink.Emit(env)
}

// Dispatch routes one inbound envelope. Unknown types produce an error
// envelope. A failing handler produces a best-effort reply of its registered
// reply type carrying only an error field, mirroring the request's ID.
func (r *Relay) Dispatch(ctx context.Context, env Envelope) {
	r.mu.RLock()
	reg, ok := r.handlers[env.Type]
	r.mu.RUnlock()

	if !ok {
		r.log.Warn("unknown message type", "type", env.Type)
		r.sink.Emit(Envelope{
			Type:    TypeError,
			ID:      env.ID,
			Payload: mustMarshal(ErrorPayload{Message: "unknown message type: " + env.Type}),
		})
		return
	}

	emit := func(reply Envelope) {
		if reply.ID == "" {
			reply.ID = env.ID
		}
		r.sink.Emit(reply)
	}

	if err := reg.handle(ctx, env, emit); err != nil {
		r.log.Error("message handling failed", "type", env.Type, "error", err)
		if reg.replyType == "" {
			emit(Envelope{Type: TypeError, Payload: mustMarshal(ErrorPayload{Message: err.Error()})})
			return
		}
		emit(Envelope{Type: reg.replyType, Payload: mustMarshal(failure{Error: err.Error()})})
	}
}

type failure struct {
	Error string `json:"error"`
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{"error":"encode failure"}`)
	}
	return raw
}
