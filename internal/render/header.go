package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Header describes the session banner printed before tailing starts.
type Header struct {
	LogGroup       string
	Region         string
	FilterPattern  string
	Highlight      []string
	Exclude        []string
	ExcludeStreams []string
	Since          time.Duration
}

// TerminalSize returns the terminal dimensions of stdout, with an 80x24
// fallback when stdout is not a terminal.
func TerminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// ScrollUp pushes prior terminal content off screen by printing blank lines,
// at least minLines of them.
func ScrollUp(w io.Writer, rows, minLines int) {
	n := rows - 5
	if n < minLines {
		n = minLines
	}
	fmt.Fprint(w, strings.Repeat("\n", n))
}

// PrintHeader writes the session banner.
func PrintHeader(w io.Writer, h Header, cols int) {
	rule := strings.Repeat("=", cols)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Starting tail of log group: %s\n", h.LogGroup)
	fmt.Fprintf(w, "Region: %s\n", h.Region)
	fmt.Fprintf(w, "Filter pattern: %s\n", orNone(h.FilterPattern))
	fmt.Fprintf(w, "Highlight tokens: %s\n", orNone(strings.Join(h.Highlight, ", ")))
	fmt.Fprintf(w, "Exclude tokens: %s\n", orNone(strings.Join(h.Exclude, ", ")))
	fmt.Fprintf(w, "Exclude streams: %s\n", orNone(strings.Join(h.ExcludeStreams, ", ")))
	fmt.Fprintf(w, "Fetching logs since: %d seconds ago\n", int(h.Since.Seconds()))
	fmt.Fprintln(w, "Press Ctrl+C to stop.")
	fmt.Fprintln(w, rule)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
