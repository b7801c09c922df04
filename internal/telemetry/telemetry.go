// Package telemetry carries stage status lines out of the pipeline.
// Stages publish without ever blocking: the bus buffers a bounded number
// of lines and drops (counting the drops) when the external consumer
// falls behind, so a slow UI can never stall a gate.
package telemetry

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Line is one timestamped, stage-tagged status event.
type Line struct {
	At      time.Time
	Stage   string
	Message string
}

// String renders the line in the boundary format: [HH:MM:SS] Stage: message.
func (l Line) String() string {
	return fmt.Sprintf("[%s] %s: %s", l.At.Format("15:04:05"), l.Stage, l.Message)
}

// Bus is the single outbound telemetry channel.  The core writes to it
// from stage goroutines; the boundary drains it asynchronously.
type Bus struct {
	lines   chan Line
	dropped atomic.Uint64
}

// NewBus builds a bus buffering up to capacity lines (minimum 1).
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{lines: make(chan Line, capacity)}
}

// Publishf formats and publishes a line.  It never blocks; when the
// buffer is full the line is dropped and counted.
func (b *Bus) Publishf(stage, format string, args ...any) {
	l := Line{At: time.Now(), Stage: stage, Message: fmt.Sprintf(format, args...)}
	select {
	case b.lines <- l:
	default:
		b.dropped.Add(1)
	}
}

// Lines exposes the stream for the external consumer.
func (b *Bus) Lines() <-chan Line { return b.lines }

// Dropped returns how many lines were discarded because the consumer lagged.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// DrainToLog consumes the bus and writes every line to the standard
// logger until the context is cancelled.  This is the default boundary
// consumer; a UI would replace it with its own drain.
func (b *Bus) DrainToLog(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case l := <-b.lines:
			log.Println(l.String())
		}
	}
}
