package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/relay-chat/relay"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the relay chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	turn   TurnFunc
	thread *relay.Thread
	theme  relay.Theme
	styles Styles

	blocks []MessageBlock

	// activeText is the assistant block receiving deltas in the current
	// turn. A tool-use notice closes it; the next delta opens a fresh one.
	activeText *AssistantTextBlock

	spin    spinner.Model
	running bool
	cancel  context.CancelFunc
	eventCh chan relay.Event
	doneCh  chan TurnDoneMsg
	err     error
	ready   bool
}

// New creates a TUI Model for the given turn function and thread.
func New(turn TurnFunc, thread *relay.Thread, theme relay.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		Input:  ti,
		turn:   turn,
		thread: thread,
		theme:  theme,
		styles: NewStyles(theme),
		spin:   sp,
	}
}

// Running returns whether a turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last turn error, if any.
func (m Model) Err() error { return m.err }

// Thread returns the thread backing the model.
func (m Model) Thread() relay.Thread { return *m.thread }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case TurnDoneMsg:
		return m.finishTurn(msg)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling (keyboard and mouse).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	gapHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - gapHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderThread()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitPrompt(text)
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Only non-character keys reach the viewport so text
	// characters like 'j'/'k' do not double as scroll keys.
	if !m.running {
		var cmds []tea.Cmd
		var cmd tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitPrompt(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.thread.Append(relay.ChatMessage{
		Role:      relay.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	m.thread.RefreshTitle()

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.activeText = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan relay.Event, 256)
	m.doneCh = make(chan TurnDoneMsg, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startTurn(m.turn, ctx, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
		m.spin.Tick,
	)
}

func (m Model) finishTurn(msg TurnDoneMsg) (tea.Model, tea.Cmd) {
	m.running = false
	m.cancel = nil
	m.eventCh = nil
	m.doneCh = nil
	m.activeText = nil

	switch {
	case msg.Err != nil && !errors.Is(msg.Err, context.Canceled):
		m.err = msg.Err
		m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
	case msg.Reply != "":
		m.thread.Append(relay.ChatMessage{
			Role:      relay.RoleAssistant,
			Content:   msg.Reply,
			Timestamp: time.Now(),
		})
	}

	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	return m, m.Input.Focus()
}

// renderThread creates blocks from the thread's existing messages.
func (m Model) renderThread() Model {
	for _, msg := range m.thread.Messages {
		switch msg.Role {
		case relay.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case relay.RoleAssistant:
			block := NewAssistantTextBlock(m.theme)
			block.Append(msg.Content)
			m.blocks = append(m.blocks, block)
		}
	}
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processEvent routes a streaming event to the transcript. A tool-use
// notice closes the active text block so text arriving afterwards starts
// a fresh block.
func (m Model) processEvent(evt relay.Event) Model {
	switch e := evt.(type) {
	case relay.EventTextDelta:
		if m.activeText == nil {
			m.activeText = NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, m.activeText)
		}
		m.activeText.Append(e.Delta)

	case relay.EventToolUse:
		m.blocks = append(m.blocks, NewToolUseBlock(e.Name, m.styles))
		m.activeText = nil
	}
	return m
}

// statusLine truncates before styling; truncate is not ANSI-aware.
func (m Model) statusLine() string {
	width := m.Viewport.Width
	switch {
	case m.err != nil:
		return m.styles.Error.Render(truncate(fmt.Sprintf("Error: %v", m.err), width))
	case m.running:
		return m.spin.View() + m.styles.Muted.Render(truncate(" Thinking... Ctrl+C to cancel", width-1))
	default:
		return m.styles.Muted.Render(truncate("Enter to send, Ctrl+C to quit", width))
	}
}

// startTurn runs the turn in a goroutine and signals completion.
func startTurn(turn TurnFunc, ctx context.Context, prompt string, eventCh chan<- relay.Event, doneCh chan<- TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		reply, err := turn(ctx, prompt, func(e relay.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- TurnDoneMsg{Reply: reply, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the channel
// closes it reads the final result from doneCh.
func listenForEvent(ch <-chan relay.Event, doneCh <-chan TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return StreamEventMsg{Event: evt}
	}
}
