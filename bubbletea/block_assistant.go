package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/relay-chat/relay"
	"github.com/relay-chat/relay/markdown"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders streamed assistant text as markdown.
// Finalized paragraphs (separated by double newline) are rendered once and
// cached; only the trailing unfinalized text is re-rendered on each delta.
type AssistantTextBlock struct {
	content strings.Builder
	theme   relay.Theme

	// finalizedRaw is the stable prefix ending at the last double newline
	// outside any code fence. It is rendered once per width.
	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAssistantTextBlock creates a block for streaming assistant text.
func NewAssistantTextBlock(theme relay.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:            theme,
		finalizedByWidth: make(map[int]string),
	}
}

// Append adds a text delta from the agent stream.
func (b *AssistantTextBlock) Append(text string) {
	b.content.WriteString(text)
	b.promoteFinalized()
}

// Text returns the raw accumulated text.
func (b *AssistantTextBlock) Text() string {
	return b.content.String()
}

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	finalized := b.renderFinalized(width)

	// markdown.Render closes dangling fences itself, so partial streams
	// display safely without help here.
	trailing := markdown.Render(b.trailingRaw(), width, b.theme)
	if strings.TrimSpace(trailing) == "" {
		return finalized
	}
	if finalized == "" {
		return trailing
	}
	// Rejoin independently rendered fragments with a single paragraph break
	// so the seam matches a full-document render.
	return strings.TrimRight(finalized, "\n") + "\n\n" + strings.TrimLeft(trailing, "\n")
}

// promoteFinalized advances finalizedRaw to the last "\n\n" boundary that
// does not fall inside an open code fence. Splitting inside a fence would
// finalize a fragment with an unclosed fence and start the trailing fragment
// mid-block.
func (b *AssistantTextBlock) promoteFinalized() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := raw[:idx]
		if !hasOpenFence(candidate) {
			if candidate != b.finalizedRaw {
				b.finalizedRaw = candidate
				clear(b.finalizedByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.finalizedRaw, width, b.theme)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) trailingRaw() string {
	raw := b.content.String()
	if b.finalizedRaw == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.finalizedRaw+"\n\n")
}

// hasOpenFence reports whether s ends inside a fenced code block, using a
// simple odd count of "```". Literal triple backticks inside inline code
// would fool it; agent output does not produce those in practice.
func hasOpenFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
