package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/relay-chat/relay"
	bt "github.com/relay-chat/relay/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestAssistantTextBlock(t *testing.T) {
	t.Parallel()

	theme := relay.DefaultTheme()

	t.Run("accumulates deltas", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantTextBlock(theme)
		b.Append("Hello, ")
		b.Append("world")

		assert.Equal(t, "Hello, world", b.Text())
		assert.Contains(t, b.View(80), "Hello, world")
	})

	t.Run("renders markdown across paragraph boundaries", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantTextBlock(theme)
		b.Append("first paragraph\n\n")
		b.Append("second paragraph")

		view := b.View(80)
		assert.Contains(t, view, "first paragraph")
		assert.Contains(t, view, "second paragraph")

		// One blank line between paragraphs, same as a single render.
		assert.NotContains(t, view, "\n\n\n")
	})

	t.Run("partial code fence renders as code", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantTextBlock(theme)
		b.Append("```go\nfunc main()")

		assert.Contains(t, b.View(80), "func main()")
	})

	t.Run("paragraph break inside fence does not split the block", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAssistantTextBlock(theme)
		b.Append("```\nline one\n\nline two\n")

		view := b.View(80)
		assert.Contains(t, view, "line one")
		assert.Contains(t, view, "line two")
	})

	t.Run("same content renders identically whole or chunked", func(t *testing.T) {
		t.Parallel()

		content := "intro text\n\n- item one\n- item two\n\nclosing text"

		whole := bt.NewAssistantTextBlock(theme)
		whole.Append(content)

		chunked := bt.NewAssistantTextBlock(theme)
		for _, chunk := range strings.SplitAfter(content, " ") {
			chunked.Append(chunk)
		}

		assert.Equal(t, whole.View(80), chunked.View(80))
	})
}
