package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/relay-chat/relay"
	bt "github.com/relay-chat/relay/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, turn bt.TurnFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, turn, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, turn bt.TurnFunc, width, height int) bt.Model {
	t.Helper()
	thread := &relay.Thread{ID: "thread-1"}
	m := bt.New(turn, thread, relay.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopTurn is a turn function that does nothing.
func nopTurn(_ context.Context, _ string, _ func(relay.Event)) (string, error) {
	return "", nil
}
