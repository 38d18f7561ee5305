package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnSeparator = " | "

// FormatLine lays out one event as a left metadata column (stream name and
// timestamp) followed by the message. Newlines inside the message are
// re-indented so continuation lines align under the message column; the
// indent width is the rendered width of the metadata column, so it holds
// with and without color.
func FormatLine(ctx *Context, stream, timestamp, message string) string {
	left := stream + columnSeparator + timestamp + columnSeparator
	if ctx.Colorize {
		left = ctx.StreamStyle(stream).Render(left)
	}

	if strings.Contains(message, "\n") {
		indent := "\n" + strings.Repeat(" ", lipgloss.Width(left))
		message = strings.ReplaceAll(message, "\n", indent)
	}
	return left + message
}

// TruncateStream reduces a stream name to its last path segment, capped at
// width runes for the display column.
func TruncateStream(name string, width int) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if runes := []rune(name); len(runes) > width {
		return string(runes[:width])
	}
	return name
}
