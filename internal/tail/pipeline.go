package tail

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/infinityplusone/cw-tail/internal/config"
	"github.com/infinityplusone/cw-tail/internal/cw"
	"github.com/infinityplusone/cw-tail/internal/format"
	"github.com/infinityplusone/cw-tail/internal/render"
)

// streamNameWidth is the display budget for the stream column.
const streamNameWidth = 9

const timestampLayout = "2006-01-02 15:04:05"

// Pipeline turns a raw fetch result into rendered lines and advances the
// time window.
type Pipeline struct {
	window         *Window
	excludeTokens  []string
	excludeStreams []string
	rules          []render.Rule
	formatter      format.Func
	formatOptions  map[string]string
	renderCtx      *render.Context
	out            io.Writer
}

// NewPipeline wires the pipeline for one session. The formatter must already
// be resolved; unknown formatter names are rejected before the loop starts.
func NewPipeline(cfg config.TailConfig, formatter format.Func, renderCtx *render.Context, window *Window, out io.Writer) *Pipeline {
	var rules []render.Rule
	if cfg.Colorize {
		rules = render.Rules(cfg.HighlightTokens, cfg.FilterTokens)
	}
	return &Pipeline{
		window:         window,
		excludeTokens:  cfg.ExcludeTokens,
		excludeStreams: cfg.ExcludeStreams,
		rules:          rules,
		formatter:      formatter,
		formatOptions:  cfg.FormatOptions,
		renderCtx:      renderCtx,
		out:            out,
	}
}

// Process renders one fetched batch and advances the window past its newest
// event. scoped reports whether the fetch was already restricted to an
// allowlist, in which case the client-side stream exclusion is skipped.
// The batch is sorted by timestamp before rendering so merged chunk results
// read in order.
func (p *Pipeline) Process(events []cw.Event, scoped bool) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	for _, ev := range events {
		if containsAny(ev.Message, p.excludeTokens) {
			continue
		}
		if !scoped && containsAny(ev.Stream, p.excludeStreams) {
			continue
		}

		stream := render.TruncateStream(ev.Stream, streamNameWidth)
		timestamp := time.UnixMilli(ev.Timestamp).Format(timestampLayout)

		message := strings.TrimRight(ev.Message, "\n")
		message = p.formatter(message, p.formatOptions)
		if len(p.rules) > 0 {
			message = render.Highlight(message, p.rules)
		}

		fmt.Fprintln(p.out, render.FormatLine(p.renderCtx, stream, timestamp, message))
	}

	if len(events) > 0 {
		maxSeen := events[len(events)-1].Timestamp
		p.window.Advance(maxSeen)
	}
}
