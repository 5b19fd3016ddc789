package ports

import (
	"context"
	"io"

	"voicepanel/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	InterimResults bool
}

// StreamingSession is an active recognizer websocket session.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// SpeechRecognizer starts streaming transcription sessions.
type SpeechRecognizer interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}

// RulesEngine transforms final transcript text using deterministic rules.
type RulesEngine interface {
	Apply(text string) (string, error)
}

// KeyValue is the host persistent store: a flat namespace of byte values.
// Mutations rewrite the whole value for a key.
type KeyValue interface {
	// Get returns the stored value, or ok=false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	// PutAll writes every entry in one atomic batch.
	PutAll(entries map[string][]byte) error
	Close() error
}

// Completer answers a single enriched prompt with one assistant reply.
type Completer interface {
	Complete(ctx context.Context, model string, system string, prompt string) (string, error)
}

// EventSink emits backend state/events to the panel.
type EventSink interface {
	ListeningStateChanged(state domain.ListeningState)
	Transcript(ev domain.TranscriptEvent)
	SessionError(code domain.ErrorCode, detail string)
}
