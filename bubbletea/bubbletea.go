// Package bubbletea provides the Bubble Tea terminal UI for relay chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/relay-chat/relay"
)

// TurnFunc runs one prompt/response turn against the agent runtime. The
// onEvent callback receives each streaming event. It blocks until the turn
// completes or the context is cancelled, and returns the assembled reply.
type TurnFunc func(ctx context.Context, prompt string, onEvent func(relay.Event)) (string, error)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling the context quits the program.
func Run(ctx context.Context, m Model) (relay.Thread, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if err != nil {
		return relay.Thread{}, err
	}
	if fm, ok := final.(Model); ok {
		return *fm.thread, nil
	}
	return *m.thread, nil
}

// StreamEventMsg wraps a streaming event for delivery to the model.
type StreamEventMsg struct {
	Event relay.Event
}

// TurnDoneMsg signals that the agent turn has completed.
type TurnDoneMsg struct {
	Reply string
	Err   error
}
