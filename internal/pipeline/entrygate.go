package pipeline

import (
	"context"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// EntryGate admits vehicles whose booking is CONFIRMED.  Anything else
// is denied and left untouched, so the caller can retry once the
// booking actually confirms.
type EntryGate struct {
	stage
	in  *queue.Queue[*model.Booking]
	now func() time.Time
}

// NewEntryGate wires the entry gate to its inbound queue.
func NewEntryGate(in *queue.Queue[*model.Booking], bus *telemetry.Bus, cfg StageLatencies) *EntryGate {
	return &EntryGate{
		stage: newStage("EntryGate", cfg.EntryGate, bus),
		in:    in,
		now:   time.Now,
	}
}

// Run consumes entry triggers until the context is cancelled.
func (st *EntryGate) Run(ctx context.Context) {
	st.begin("gate ready for entries")
	defer st.finish()

	for ctx.Err() == nil {
		b, err := st.in.Take(ctx)
		if err != nil {
			return
		}
		st.announce("Processing entry for %s (Vehicle: %s)", b.Requester, b.AssetID)

		if b.Status() != model.StatusConfirmed {
			st.announce("Entry denied for %s - no confirmed booking (status %s)", b.AssetID, b.Status())
			continue
		}
		// Gate actuation time.  The status transition happens after the
		// gate has opened, so cancellation mid-actuation leaves the
		// record CONFIRMED and re-triggerable.
		if !st.pause(ctx) {
			return
		}
		if !b.MarkEntered(st.now()) {
			st.announce("Entry denied for %s - status changed to %s during gate operation", b.AssetID, b.Status())
			continue
		}
		st.announce("Gate opened - %s entered spot %s", b.AssetID, b.Slot())
	}
}
