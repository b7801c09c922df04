package pipeline

import (
	"context"

	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// RecordSink is where the recorder appends settled record lines.
// repository.RecordStore satisfies this.
type RecordSink interface {
	Append(line string) error
}

// RecorderStage persists formatted record lines.  A failed write drops
// that one line and is reported to telemetry; the stage keeps consuming
// so one bad write never wedges settlement behind a full queue.
type RecorderStage struct {
	stage
	in   *queue.Queue[string]
	sink RecordSink
}

// NewRecorderStage wires the recorder to the settlement output queue
// and the durable sink.
func NewRecorderStage(in *queue.Queue[string], sink RecordSink, bus *telemetry.Bus, cfg StageLatencies) *RecorderStage {
	return &RecorderStage{
		stage: newStage("RecordSaver", cfg.Recorder, bus),
		in:    in,
		sink:  sink,
	}
}

// Run consumes record lines until the context is cancelled.
func (st *RecorderStage) Run(ctx context.Context) {
	st.begin("ready to save records")
	defer st.finish()

	for ctx.Err() == nil {
		line, err := st.in.Take(ctx)
		if err != nil {
			return
		}
		// Simulated disk latency.
		if !st.pause(ctx) {
			return
		}
		if err := st.sink.Append(line); err != nil {
			st.announce("ERROR: failed to save record - %v", err)
			continue
		}
		st.announce("Saved record to file")
	}
}
