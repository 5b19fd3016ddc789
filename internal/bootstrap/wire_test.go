package bootstrap

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"voicepanel/internal/domain"
	"voicepanel/internal/relay"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	services, err := Build(testDeps())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Store.Close()

	if services.Listener == nil || services.Panel == nil || services.Relay == nil || services.Assistant == nil {
		t.Fatalf("expected fully assembled graph")
	}
	if got := len(services.Commands.Actions()); got != 7 {
		t.Fatalf("expected 7 registered commands, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "share", "voicepanel", "voicepanel.db")); err != nil {
		t.Fatalf("expected store file under home: %v", err)
	}
}

func TestBuildFailsOnInvalidRules(t *testing.T) {
	home := t.TempDir()
	rules := filepath.Join(home, "bad.rules")
	if err := os.WriteFile(rules, []byte("not a valid rule\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("VOICEPANEL_RULES_FILE", rules)

	_, err := Build(testDeps())
	if err == nil {
		t.Fatalf("expected build error due to invalid rules")
	}
}

func testDeps() Deps {
	return Deps{
		Sink:   noopSink{},
		Events: noopEventSink{},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type noopSink struct{}

func (noopSink) Emit(_ relay.Envelope) {}

type noopEventSink struct{}

func (noopEventSink) ListeningStateChanged(_ domain.ListeningState) {}
func (noopEventSink) Transcript(_ domain.TranscriptEvent)           {}
func (noopEventSink) SessionError(_ domain.ErrorCode, _ string)     {}
