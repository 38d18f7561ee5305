package tail

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// DefaultRefreshInterval bounds how often the stream list is re-fetched.
const DefaultRefreshInterval = 60 * time.Second

// streamLister is the slice of the logs client the registry needs.
type streamLister interface {
	ListStreams(ctx context.Context, group string) ([]string, error)
}

// StreamRegistry caches the log group's stream names with exclusion
// substrings applied. It is only active when stream exclusion is configured;
// otherwise fetches stay unscoped and skip the extra API round trip.
type StreamRegistry struct {
	lister   streamLister
	group    string
	exclude  []string
	interval time.Duration
	logger   *slog.Logger

	names       []string
	lastRefresh time.Time
}

// NewStreamRegistry creates a registry for one log group. An empty exclude
// list makes the registry inert.
func NewStreamRegistry(lister streamLister, group string, exclude []string, logger *slog.Logger) *StreamRegistry {
	return &StreamRegistry{
		lister:   lister,
		group:    group,
		exclude:  exclude,
		interval: DefaultRefreshInterval,
		logger:   logger,
	}
}

// Streams returns the allowlist for the next fetch, refreshing the cache when
// it is stale. A failed refresh falls back to the previous cached list (or
// nil, leaving the fetch unscoped) instead of failing the polling iteration.
func (r *StreamRegistry) Streams(ctx context.Context, now time.Time) []string {
	if len(r.exclude) == 0 {
		return nil
	}
	if !r.shouldRefresh(now) {
		return r.names
	}

	all, err := r.lister.ListStreams(ctx, r.group)
	if err != nil {
		r.logger.Warn("stream list refresh failed, using cached list", "error", err)
		return r.names
	}

	names := make([]string, 0, len(all))
	for _, name := range all {
		if !containsAny(name, r.exclude) {
			names = append(names, name)
		}
	}
	r.names = names
	r.lastRefresh = now
	return r.names
}

func (r *StreamRegistry) shouldRefresh(now time.Time) bool {
	return r.lastRefresh.IsZero() || now.Sub(r.lastRefresh) > r.interval
}

// containsAny reports whether s contains any of the substrings,
// case-sensitively.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
