// Package tail implements the polling loop that keeps a CloudWatch log group
// flowing to the terminal: time-window advancement, stream registry caching,
// the event pipeline, and retry orchestration.
package tail

import "time"

// Window tracks the advancing lower bound of the polling interval, in
// milliseconds since epoch. Advancing past the newest seen event is the sole
// mechanism preventing re-fetch of already-seen events; events sharing the
// boundary timestamp may be fetched twice and that is tolerated rather than
// dropped.
type Window struct {
	startMillis int64
}

// NewWindow starts the window lookback before now.
func NewWindow(now time.Time, lookback time.Duration) *Window {
	return &Window{startMillis: now.Add(-lookback).UnixMilli()}
}

// Current returns the lower bound for the next fetch.
func (w *Window) Current() int64 {
	return w.startMillis
}

// Advance moves the window to just past maxSeen. It never moves backward: a
// batch older than the current bound is a no-op.
func (w *Window) Advance(maxSeen int64) {
	if maxSeen >= w.startMillis {
		w.startMillis = maxSeen + 1
	}
}
