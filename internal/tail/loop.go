package tail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/infinityplusone/cw-tail/internal/config"
	"github.com/infinityplusone/cw-tail/internal/cw"
	"github.com/infinityplusone/cw-tail/internal/render"
)

// eventFetcher is the slice of the logs client the loop needs.
type eventFetcher interface {
	FetchEvents(ctx context.Context, q cw.Query) ([]cw.Event, error)
}

// Loop runs the tail session: poll, render, sleep, retry on upstream
// failure, stop on context cancellation.
type Loop struct {
	cfg      config.TailConfig
	fetcher  eventFetcher
	registry *StreamRegistry
	pipeline *Pipeline
	window   *Window
	pattern  string
	out      io.Writer
	logger   *slog.Logger

	now func() time.Time
}

// NewLoop assembles a tail session. The window must be shared with the
// pipeline so rendered batches advance the next fetch's lower bound.
func NewLoop(cfg config.TailConfig, fetcher eventFetcher, registry *StreamRegistry, pipeline *Pipeline, window *Window, out io.Writer, logger *slog.Logger) *Loop {
	return &Loop{
		cfg:      cfg,
		fetcher:  fetcher,
		registry: registry,
		pipeline: pipeline,
		window:   window,
		pattern:  cw.BuildFilterPattern(cfg.FilterTokens, cfg.ExcludeTokens),
		out:      out,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled. Upstream failures are reported and
// retried indefinitely with a longer delay; the in-flight batch is always
// either fully rendered or not started when the loop stops.
func (l *Loop) Run(ctx context.Context) error {
	cols, rows := render.TerminalSize()
	render.ScrollUp(l.out, rows, 10)
	render.PrintHeader(l.out, render.Header{
		LogGroup:       l.cfg.LogGroup,
		Region:         l.cfg.Region,
		FilterPattern:  l.pattern,
		Highlight:      l.cfg.HighlightTokens,
		Exclude:        l.cfg.ExcludeTokens,
		ExcludeStreams: l.cfg.ExcludeStreams,
		Since:          l.cfg.Since,
	}, cols)

	for {
		delay := l.cfg.PollInterval
		if err := l.poll(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			l.logger.Error("poll failed, retrying", "error", err)
			delay = l.cfg.RetryInterval
		}
		if !sleepCtx(ctx, delay) {
			break
		}
	}

	fmt.Fprintln(l.out, "\nExiting tail...")
	return nil
}

// poll runs one iteration: resolve the stream allowlist, fetch, render.
func (l *Loop) poll(ctx context.Context) error {
	streams := l.registry.Streams(ctx, l.now())

	events, err := l.fetcher.FetchEvents(ctx, cw.Query{
		Group:     l.cfg.LogGroup,
		StartTime: l.window.Current(),
		Streams:   streams,
		Pattern:   l.pattern,
	})
	if err != nil {
		return err
	}

	l.pipeline.Process(events, len(streams) > 0)
	return nil
}

// sleepCtx waits for d or until ctx is cancelled, reporting whether the full
// delay elapsed. A single cancellable timer keeps interrupt latency low
// without busy-waiting.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
