package pipeline

import (
	"context"

	"github.com/salimi-my/campus-parking-spot-booking/internal/ledger"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// ExitGate releases spots for vehicles whose booking is ENTERED and
// forwards the record to settlement.  It is the settlement queue's only
// producer in this wiring.
type ExitGate struct {
	stage
	in  *queue.Queue[*model.Booking]
	out *queue.Queue[*model.Booking]
	led *ledger.Ledger
}

// NewExitGate wires the exit gate between its inbound queue and the
// settlement queue.
func NewExitGate(in, out *queue.Queue[*model.Booking], led *ledger.Ledger, bus *telemetry.Bus, cfg StageLatencies) *ExitGate {
	return &ExitGate{
		stage: newStage("ExitGate", cfg.ExitGate, bus),
		in:    in,
		out:   out,
		led:   led,
	}
}

// Run consumes exit triggers until the context is cancelled.
func (st *ExitGate) Run(ctx context.Context) {
	st.begin("gate ready for exits")
	defer st.finish()

	for ctx.Err() == nil {
		b, err := st.in.Take(ctx)
		if err != nil {
			return
		}
		st.announce("Processing exit for %s (Vehicle: %s)", b.Requester, b.AssetID)

		if b.Status() != model.StatusEntered {
			st.announce("Exit denied for %s - vehicle never entered (status %s)", b.AssetID, b.Status())
			continue
		}
		if !st.pause(ctx) {
			return
		}
		slot := b.Slot()
		if !b.MarkExited() {
			st.announce("Exit denied for %s - status changed to %s during gate operation", b.AssetID, b.Status())
			continue
		}
		// The spot is free the moment the vehicle is out, before the
		// (possibly slow) settlement runs.
		st.led.Release(slot)
		st.announce("Gate opened - %s exited from spot %s", b.AssetID, slot)

		// Backpressure: block until settlement has room, or shut down.
		if err := st.out.Put(ctx, b); err != nil {
			return
		}
		st.announce("Vehicle %s exited - settlement queued", b.AssetID)
	}
}
