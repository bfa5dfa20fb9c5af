package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ToolUseBlock)(nil)

// ToolUseBlock renders a one-line notice that the agent invoked a tool.
// The runtime executes tools remotely, so only the name is known here.
type ToolUseBlock struct {
	name   string
	styles Styles
}

// NewToolUseBlock creates a ToolUseBlock.
func NewToolUseBlock(name string, styles Styles) *ToolUseBlock {
	return &ToolUseBlock{name: name, styles: styles}
}

func (b *ToolUseBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ToolUseBlock) View(width int) string {
	content := b.styles.ToolUse.Render("⚙ " + b.name)
	return lipgloss.NewStyle().Width(width).Render(content)
}
