// Package render turns log events into styled terminal lines: per-stream
// coloring, token highlighting, and two-column layout.
package render

import "github.com/charmbracelet/lipgloss"

// palette holds the per-stream colors, cycled by first-seen order.
var palette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("28")),  // rgb(0,135,0)
	lipgloss.NewStyle().Foreground(lipgloss.Color("136")), // rgb(175,135,0)
	lipgloss.NewStyle().Foreground(lipgloss.Color("90")),  // rgb(135,0,135)
	lipgloss.NewStyle().Foreground(lipgloss.Color("31")),  // rgb(0,135,175)
	lipgloss.NewStyle().Foreground(lipgloss.Color("168")), // rgb(215,95,135)
	lipgloss.NewStyle().Foreground(lipgloss.Color("73")),  // rgb(95,175,175)
	lipgloss.NewStyle().Foreground(lipgloss.Color("61")),  // rgb(95,95,175)
	lipgloss.NewStyle().Foreground(lipgloss.Color("216")), // rgb(255,175,135)
	lipgloss.NewStyle().Foreground(lipgloss.Color("24")),  // rgb(0,95,135)
	lipgloss.NewStyle().Foreground(lipgloss.Color("184")), // rgb(215,215,0)
	lipgloss.NewStyle().Foreground(lipgloss.Color("31")),  // rgb(0,135,175)
	lipgloss.NewStyle().Foreground(lipgloss.Color("209")), // rgb(255,135,95)
	lipgloss.NewStyle().Foreground(lipgloss.Color("93")),  // rgb(87,87,255)
}

// Styles for the two highlight rule classes.
var (
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	FilterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Context carries the styling state for one tail session: the colorize flag
// and the per-stream color assignments. It is owned by the tail loop and
// passed explicitly into formatting calls.
type Context struct {
	Colorize bool
	streams  map[string]lipgloss.Style
}

// NewContext creates a render context for one session.
func NewContext(colorize bool) *Context {
	return &Context{
		Colorize: colorize,
		streams:  make(map[string]lipgloss.Style),
	}
}

// StreamStyle returns the style assigned to a stream, allocating the next
// palette entry on first sight. Assignments live for the whole session.
func (c *Context) StreamStyle(stream string) lipgloss.Style {
	if !c.Colorize {
		return lipgloss.NewStyle()
	}
	if style, ok := c.streams[stream]; ok {
		return style
	}
	style := palette[len(c.streams)%len(palette)]
	c.streams[stream] = style
	return style
}
