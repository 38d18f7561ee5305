package tail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeLister struct {
	names []string
	err   error
	calls int
}

func (f *fakeLister) ListStreams(_ context.Context, _ string) ([]string, error) {
	f.calls++
	return f.names, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStreamRegistryInertWithoutExclusions(t *testing.T) {
	lister := &fakeLister{names: []string{"a", "b"}}
	r := NewStreamRegistry(lister, "g", nil, testLogger())

	if got := r.Streams(context.Background(), time.Now()); got != nil {
		t.Errorf("Streams() = %v, want nil for unscoped fetch", got)
	}
	if lister.calls != 0 {
		t.Error("inert registry must not hit the API")
	}
}

func TestStreamRegistryAppliesExclusions(t *testing.T) {
	lister := &fakeLister{names: []string{"web/one", "worker/two", "web/three"}}
	r := NewStreamRegistry(lister, "g", []string{"worker"}, testLogger())

	got := r.Streams(context.Background(), time.Now())
	if len(got) != 2 || got[0] != "web/one" || got[1] != "web/three" {
		t.Errorf("Streams() = %v", got)
	}
}

func TestStreamRegistryExclusionIsCaseSensitive(t *testing.T) {
	lister := &fakeLister{names: []string{"Worker/one", "worker/two"}}
	r := NewStreamRegistry(lister, "g", []string{"worker"}, testLogger())

	got := r.Streams(context.Background(), time.Now())
	if len(got) != 1 || got[0] != "Worker/one" {
		t.Errorf("Streams() = %v", got)
	}
}

func TestStreamRegistryRefreshInterval(t *testing.T) {
	lister := &fakeLister{names: []string{"a"}}
	r := NewStreamRegistry(lister, "g", []string{"x"}, testLogger())

	start := time.Unix(0, 0)
	r.Streams(context.Background(), start)
	r.Streams(context.Background(), start.Add(30*time.Second))
	if lister.calls != 1 {
		t.Errorf("expected cached list inside refresh interval, got %d calls", lister.calls)
	}

	r.Streams(context.Background(), start.Add(61*time.Second))
	if lister.calls != 2 {
		t.Errorf("expected refresh after interval, got %d calls", lister.calls)
	}
}

func TestStreamRegistryKeepsCacheOnError(t *testing.T) {
	lister := &fakeLister{names: []string{"keep/me", "drop/worker"}}
	r := NewStreamRegistry(lister, "g", []string{"worker"}, testLogger())

	start := time.Unix(0, 0)
	first := r.Streams(context.Background(), start)
	if len(first) != 1 {
		t.Fatalf("Streams() = %v", first)
	}

	lister.err = errors.New("throttled")
	got := r.Streams(context.Background(), start.Add(2*time.Minute))
	if len(got) != 1 || got[0] != "keep/me" {
		t.Errorf("Streams() after failed refresh = %v, want cached list", got)
	}

	// A failed refresh leaves the cache stale, so the next call retries.
	lister.err = nil
	r.Streams(context.Background(), start.Add(3*time.Minute))
	if lister.calls != 3 {
		t.Errorf("expected retry after failed refresh, got %d calls", lister.calls)
	}
}

func TestStreamRegistryErrorWithEmptyCacheIsUnscoped(t *testing.T) {
	lister := &fakeLister{err: errors.New("down")}
	r := NewStreamRegistry(lister, "g", []string{"x"}, testLogger())

	if got := r.Streams(context.Background(), time.Now()); got != nil {
		t.Errorf("Streams() = %v, want nil so the fetch queries the whole group", got)
	}
}
