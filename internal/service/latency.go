package service

import (
	"context"
	"time"
)

// LatencyGate injects an artificial delay to emulate network round-trips
// for the demo dashboard. It always resolves: either the delay elapses or
// the caller's context is cancelled. A nil or zero-delay gate waits for
// nothing, which is what tests use.
type LatencyGate struct {
	delay time.Duration
}

// NewLatencyGate creates a gate with the given delay.
func NewLatencyGate(delay time.Duration) *LatencyGate {
	return &LatencyGate{delay: delay}
}

// Wait blocks for the configured delay or until ctx is done.
func (g *LatencyGate) Wait(ctx context.Context) error {
	if g == nil || g.delay <= 0 {
		return nil
	}

	t := time.NewTimer(g.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
