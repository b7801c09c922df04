package pipeline

import (
	"context"

	"github.com/salimi-my/campus-parking-spot-booking/internal/ledger"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// BookingStage validates incoming bookings and reserves spots.  It is
// the only stage that allocates against the ledger; a booking it cannot
// place transitions to REJECTED and is discarded, never retried.
// Confirmed bookings are not forwarded anywhere: entry and exit are
// triggered by the boundary when the vehicle actually shows up.
type BookingStage struct {
	stage
	in  *queue.Queue[*model.Booking]
	led *ledger.Ledger
}

// NewBookingStage wires the reservation stage to its inbound queue and
// the shared ledger.
func NewBookingStage(in *queue.Queue[*model.Booking], led *ledger.Ledger, bus *telemetry.Bus, cfg StageLatencies) *BookingStage {
	return &BookingStage{
		stage: newStage("BookingProcessor", cfg.Booking, bus),
		in:    in,
		led:   led,
	}
}

// Run consumes bookings until the context is cancelled.
func (st *BookingStage) Run(ctx context.Context) {
	st.begin("ready to process bookings")
	defer st.finish()

	for ctx.Err() == nil {
		b, err := st.in.Take(ctx)
		if err != nil {
			return // cancelled while parked
		}
		st.announce("Processing booking for %s (Vehicle: %s)", b.Requester, b.AssetID)

		// Simulated validation cost.  Cancellation here drops the
		// booking without having touched the ledger.
		if !st.pause(ctx) {
			return
		}
		st.process(b)
	}
}

func (st *BookingStage) process(b *model.Booking) {
	if !st.led.HasCapacity(b.Zone) {
		b.MarkRejected()
		st.announce("Booking rejected for %s - zone full (Zone %s)", b.Requester, b.Zone)
		return
	}
	// Reserve re-checks inside the ledger's critical section; the
	// earlier capacity check can go stale under concurrent bookings.
	slot, ok := st.led.Reserve(b.Zone)
	if !ok {
		b.MarkRejected()
		st.announce("Booking rejected for %s - Zone %s became full during processing", b.Requester, b.Zone)
		return
	}
	if !b.MarkConfirmed(slot) {
		// The record was not PENDING; give the spot back rather than
		// leak it.
		st.led.Release(slot)
		st.announce("Booking for %s ignored - unexpected status %s", b.Requester, b.Status())
		return
	}
	st.announce("Booking confirmed: %s assigned to %s in Zone %s", b.Requester, slot, b.Zone)
}
