// Package pipeline contains the five processing stages that carry a
// booking from submission to its durable record, plus the coordinator
// that starts them and shuts them down.  Each stage is a goroutine with
// the same loop shape: take one item from its inbound queue, apply the
// stage's simulated latency, perform its effect, optionally forward the
// result, and report a telemetry line.  Cancellation wakes a stage
// parked in a take or a latency sleep; it exits without partial effects
// and without treating the wake-up as a failure.
package pipeline

import (
	"context"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// stage carries the plumbing shared by every pipeline stage.
type stage struct {
	name    string
	latency time.Duration
	bus     *telemetry.Bus
	started chan struct{} // closed once the loop is about to run
	done    chan struct{} // closed once the loop has exited
}

func newStage(name string, latency time.Duration, bus *telemetry.Bus) stage {
	return stage{
		name:    name,
		latency: latency,
		bus:     bus,
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// announce reports a telemetry line tagged with the stage name.
func (s *stage) announce(format string, args ...any) {
	s.bus.Publishf(s.name, format, args...)
}

// begin marks the stage as started and reports it.
func (s *stage) begin(msg string) {
	close(s.started)
	s.announce("started - %s", msg)
}

// finish marks the stage as terminated and reports it.
func (s *stage) finish() {
	s.announce("terminated")
	close(s.done)
}

// pause sleeps for the stage's simulated latency.  It returns false if
// the context was cancelled first, in which case the caller must stop
// without applying its effect.
func (s *stage) pause(ctx context.Context) bool {
	if s.latency <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Started is closed once the stage's loop is running.
func (s *stage) Started() <-chan struct{} { return s.started }

// Done is closed once the stage's loop has exited.
func (s *stage) Done() <-chan struct{} { return s.done }

// Name returns the stage's telemetry tag.
func (s *stage) Name() string { return s.name }
