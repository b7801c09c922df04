package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/billing"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

// SettledPublisher pushes a settlement event to the message broker.
// queue_publisher.PublishBookingSettled satisfies this; a nil publisher
// disables broker mirroring.
type SettledPublisher func(ctx context.Context, event queue.BookingSettledEvent) error

// PaymentStage settles fees for exited vehicles.  Settlement is kept
// single-threaded so financial records stay ordered; the fee itself is
// a pure computation in the billing package.  The formatted record line
// is forwarded to the recorder, not the booking.
type PaymentStage struct {
	stage
	in      *queue.Queue[*model.Booking]
	out     *queue.Queue[string]
	calc    *billing.Calculator
	prefix  string
	publish SettledPublisher
	now     func() time.Time
}

// NewPaymentStage wires settlement between the exit gate and the
// recorder.  publish may be nil.
func NewPaymentStage(in *queue.Queue[*model.Booking], out *queue.Queue[string], calc *billing.Calculator, currencyPrefix string, publish SettledPublisher, bus *telemetry.Bus, cfg StageLatencies) *PaymentStage {
	return &PaymentStage{
		stage:   newStage("PaymentProcessor", cfg.Payment, bus),
		in:      in,
		out:     out,
		calc:    calc,
		prefix:  currencyPrefix,
		publish: publish,
		now:     time.Now,
	}
}

// Run consumes exited bookings until the context is cancelled.
func (st *PaymentStage) Run(ctx context.Context) {
	st.begin("ready to process payments")
	defer st.finish()

	for ctx.Err() == nil {
		b, err := st.in.Take(ctx)
		if err != nil {
			return
		}
		st.announce("Processing payment for %s (Vehicle: %s)", b.Requester, b.AssetID)

		// Simulated gateway round-trip.
		if !st.pause(ctx) {
			return
		}

		exitAt := st.now()
		fee := st.calc.ComputeFee(b.Class, b.EnteredAt(), exitAt)
		b.SetFee(fee)
		st.announce("Payment processed: %s%.2f for %s", st.prefix, fee, b.AssetID)

		line := b.FileRecord(st.prefix)
		if err := st.out.Put(ctx, line); err != nil {
			return
		}

		if st.publish != nil {
			st.mirror(ctx, b, exitAt, fee)
		}
	}
}

// mirror publishes the settlement to the broker without ever blocking
// the stage: the publish runs in its own goroutine with a short
// deadline, and failures are the publisher's to log.
func (st *PaymentStage) mirror(ctx context.Context, b *model.Booking, exitAt time.Time, fee float64) {
	ev := queue.BookingSettledEvent{
		BookingID: b.ID,
		Requester: b.Requester,
		AssetID:   b.AssetID,
		Zone:      b.Zone,
		Slot:      b.Slot(),
		SpotClass: string(b.Class),
		SettledAt: exitAt.UTC().Format(time.RFC3339),
		FeeCents:  uint32(math.Round(fee * 100)),
	}
	if at := b.EnteredAt(); !at.IsZero() {
		ev.EnteredAt = at.UTC().Format(time.RFC3339)
	}
	publish := st.publish
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = publish(pctx, ev) // best effort; errors are logged by the publisher
	}()
}
