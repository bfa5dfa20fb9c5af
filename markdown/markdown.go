// Package markdown renders assistant markdown to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
//
// The renderer is tolerant of partial input: assistant text is re-rendered
// on every streamed delta, so a code fence that has been opened but not yet
// closed is treated as closed at the end of the input.
package markdown

import (
	"strings"

	"github.com/relay-chat/relay"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme relay.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(closeDanglingFence(source)), width)
}

// closeDanglingFence appends a closing fence when the source ends inside an
// open code block. Without this a partially streamed block flickers between
// code and paragraph styling as deltas arrive.
func closeDanglingFence(source string) string {
	open := false
	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " "), "```") {
			open = !open
		}
	}
	if !open {
		return source
	}
	return strings.TrimRight(source, "\n") + "\n```"
}
