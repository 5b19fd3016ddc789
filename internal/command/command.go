// Package command hosts the invocable action surface. Actions are looked up
// by name; the panel dispatches accelerator presses as command envelopes and
// the host executes whatever the name resolves to.
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownCommand = errors.New("unknown command")

// Action is one invocable command. Accelerator is empty for actions without
// a key binding; bindings only take effect while the panel holds focus.
type Action struct {
	Name        string
	Title       string
	Accelerator string
	Run         func(ctx context.Context) error
}

// Registry resolves and runs actions by name.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds one action. Names are unique; a duplicate is a wiring bug.
func (r *Registry) Register(action Action) error {
	if action.Name == "" {
		return errors.New("command name required")
	}
	if action.Run == nil {
		return fmt.Errorf("command %q has no run function", action.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[action.Name]; exists {
		return fmt.Errorf("command %q already registered", action.Name)
	}
	r.actions[action.Name] = action
	r.order = append(r.order, action.Name)
	return nil
}

// Dispatch runs the named action.
func (r *Registry) Dispatch(ctx context.Context, name string) error {
	r.mu.RLock()
	action, ok := r.actions[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return action.Run(ctx)
}

// Actions returns the registered actions in registration order.
func (r *Registry) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Action, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.actions[name])
	}
	return out
}
