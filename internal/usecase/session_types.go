package usecase

import (
	"voicepanel/internal/ports"
)

// listeningSession tracks the live capture pipeline for one listening run.
// Whether a run is still owned is decided by Listener.current, so the
// session itself carries no state machine.
type listeningSession struct {
	cancel     func()
	audio      ports.AudioSession
	stream     ports.StreamingSession
	eventsDone chan struct{}
	audioDone  chan struct{}
}
