package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"voicepanel/internal/domain"
	"voicepanel/internal/ports"
)

var ErrNotListening = errors.New("no active listening session")

// ListenerConfig controls capture and streaming for listening sessions.
type ListenerConfig struct {
	Audio          ports.AudioConfig
	Streaming      ports.StreamingConfig
	ChunkSize      int
	StreamingGrace time.Duration
}

// Listener orchestrates continuous speech capture and live transcription.
// The transcript outlives individual listening runs; it only resets when
// the panel asks for it.
type Listener struct {
	audio      ports.AudioCapture
	recognizer ports.SpeechRecognizer
	rules      ports.RulesEngine
	events     ports.EventSink
	cfg        ListenerConfig

	transcript *transcriptAggregator

	mu      sync.Mutex
	current *listeningSession
}

func NewListener(
	audio ports.AudioCapture,
	recognizer ports.SpeechRecognizer,
	rules ports.RulesEngine,
	events ports.EventSink,
	cfg ListenerConfig,
) *Listener {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	return &Listener{
		audio:      audio,
		recognizer: recognizer,
		rules:      rules,
		events:     events,
		cfg:        cfg,
		transcript: newTranscriptAggregator(),
	}
}

// Start begins a new listening session, replacing any session still running.
func (l *Listener) Start(ctx context.Context) error {
	var previous *listeningSession

	l.mu.Lock()
	if l.current != nil {
		previous = l.current
		l.current = nil
	}
	l.mu.Unlock()

	if previous != nil {
		l.teardown(previous)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	stream, err := l.recognizer.StartStreaming(sessionCtx, l.cfg.Streaming)
	if err != nil {
		cancel()
		return err
	}

	audioSession, err := l.audio.Start(sessionCtx, l.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		cancel()
		return err
	}

	session := &listeningSession{
		cancel:     cancel,
		audio:      audioSession,
		stream:     stream,
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}

	l.mu.Lock()
	l.current = session
	l.mu.Unlock()

	go l.consumeEvents(session)
	go pumpAudioChunks(session.audio, session.stream, l.cfg.ChunkSize, l.events, session.audioDone)

	l.events.ListeningStateChanged(domain.ListeningStateListening)
	return nil
}

// Stop ends the active listening session and drains trailing transcripts.
func (l *Listener) Stop(ctx context.Context) error {
	session, err := l.takeCurrent()
	if err != nil {
		return err
	}

	if err := session.audio.Stop(); err != nil {
		l.events.SessionError(domain.ErrorCodeAudioStream, "failed to stop audio capture cleanly")
	}

	if l.cfg.StreamingGrace > 0 {
		timer := time.NewTimer(l.cfg.StreamingGrace)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	_ = session.stream.CloseSend()
	streamErr := waitForStream(session.stream, 4*time.Second)
	<-session.eventsDone
	<-session.audioDone
	session.cancel()

	if streamErr != nil {
		l.events.SessionError(domain.ErrorCodeRecognizer, streamErr.Error())
	}
	l.events.ListeningStateChanged(domain.ListeningStateIdle)
	return streamErr
}

// Toggle flips listening on or off and reports whether it is now on.
func (l *Listener) Toggle(ctx context.Context) (bool, error) {
	if l.Active() {
		if err := l.Stop(ctx); err != nil && !errors.Is(err, ErrNotListening) {
			return false, err
		}
		return false, nil
	}
	if err := l.Start(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Active reports whether a listening session is running.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// Status returns the current listening status.
func (l *Listener) Status() domain.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return domain.Status{State: domain.ListeningStateIdle, Active: false}
	}
	return domain.Status{State: domain.ListeningStateListening, Active: true}
}

// Transcript returns the accumulated session transcript.
func (l *Listener) Transcript() string {
	return l.transcript.Text()
}

// ClearTranscript discards the accumulated session transcript.
func (l *Listener) ClearTranscript() {
	l.transcript.Clear()
}

// NoteTranscript records a transcript delta posted by the panel, so
// host-side dispatch sees the same transcript the panel displays. Final
// deltas pass through the substitution rules like recognizer finals do.
func (l *Listener) NoteTranscript(event domain.TranscriptEvent) {
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return
	}
	if event.Kind == domain.TranscriptKindFinal {
		text = l.applyRules(text)
	}
	event.Text = text
	l.transcript.Add(event)
}

func (l *Listener) consumeEvents(session *listeningSession) {
	defer close(session.eventsDone)

	for event := range session.stream.Events() {
		text := strings.TrimSpace(event.Text)
		if text == "" {
			continue
		}
		if event.Kind == domain.TranscriptKindFinal {
			text = l.applyRules(text)
		}
		event.Text = text
		l.transcript.Add(event)
		l.events.Transcript(event)
	}

	err := session.stream.Wait()
	if err == nil {
		return
	}
	if !l.disown(session) {
		// Stop or a restart already owns the teardown and its reporting.
		return
	}
	session.cancel()
	_ = session.audio.Stop()
	l.events.SessionError(domain.ErrorCodeRecognizer, err.Error())
	l.events.ListeningStateChanged(domain.ListeningStateIdle)
}

func (l *Listener) applyRules(text string) string {
	transformed, err := l.rules.Apply(text)
	if err != nil {
		l.events.SessionError(domain.ErrorCodeRules, err.Error())
		return text
	}
	return transformed
}

func (l *Listener) takeCurrent() (*listeningSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil, ErrNotListening
	}
	session := l.current
	l.current = nil
	return session, nil
}

func (l *Listener) disown(session *listeningSession) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != session {
		return false
	}
	l.current = nil
	return true
}

func (l *Listener) teardown(session *listeningSession) {
	session.cancel()
	_ = session.audio.Stop()
	_ = session.stream.Close()
	<-session.eventsDone
	<-session.audioDone
}
