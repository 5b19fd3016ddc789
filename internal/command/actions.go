package command

import "context"

// The built-in action names. The panel references these verbatim in its
// command envelopes and keybinding table.
const (
	OpenPanel        = "open-panel"
	ToggleListening  = "toggle-listening"
	SendToAI         = "send-to-ai"
	ClearTranscript  = "clear-transcript"
	OpenSettings     = "open-settings"
	OpenHistory      = "open-history"
	SaveConversation = "save-conversation"
)

// Deps carries the host capabilities the built-in actions act on. DirectPanel
// forwards a directive back to the panel for actions whose effect is a UI
// state change rather than host work.
type Deps struct {
	ShowPanel       func()
	ToggleListening func(ctx context.Context) (bool, error)
	SendToAI        func(ctx context.Context) error
	ClearTranscript func()
	DirectPanel     func(directive string)
}

// RegisterBuiltins wires the seven panel actions. Open panel carries no
// accelerator; the other six bind fixed combinations.
func RegisterBuiltins(r *Registry, deps Deps) error {
	builtins := []Action{
		{
			Name:  OpenPanel,
			Title: "Open Voice Panel",
			Run: func(_ context.Context) error {
				deps.ShowPanel()
				return nil
			},
		},
		{
			Name:        ToggleListening,
			Title:       "Toggle Listening",
			Accelerator: "Ctrl+Shift+L",
			Run: func(ctx context.Context) error {
				_, err := deps.ToggleListening(ctx)
				return err
			},
		},
		{
			Name:        SendToAI,
			Title:       "Send Transcript to AI",
			Accelerator: "Ctrl+Shift+Enter",
			Run:         deps.SendToAI,
		},
		{
			Name:        ClearTranscript,
			Title:       "Clear Transcript",
			Accelerator: "Ctrl+Shift+X",
			Run: func(_ context.Context) error {
				deps.ClearTranscript()
				deps.DirectPanel(ClearTranscript)
				return nil
			},
		},
		{
			Name:        OpenSettings,
			Title:       "Open Settings",
			Accelerator: "Ctrl+Shift+,",
			Run: func(_ context.Context) error {
				deps.ShowPanel()
				deps.DirectPanel(OpenSettings)
				return nil
			},
		},
		{
			Name:        OpenHistory,
			Title:       "Open Conversation History",
			Accelerator: "Ctrl+Shift+H",
			Run: func(_ context.Context) error {
				deps.ShowPanel()
				deps.DirectPanel(OpenHistory)
				return nil
			},
		},
		{
			Name:        SaveConversation,
			Title:       "Save Conversation",
			Accelerator: "Ctrl+Shift+S",
			Run: func(_ context.Context) error {
				deps.DirectPanel(SaveConversation)
				return nil
			},
		},
	}

	for _, action := range builtins {
		if err := r.Register(action); err != nil {
			return err
		}
	}
	return nil
}
