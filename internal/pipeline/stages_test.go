package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

func exitedBooking(t *testing.T, enteredAt time.Time) *model.Booking {
	t.Helper()
	b := model.NewBooking("bk-1", "Aina", "WXY 1234", "A", model.ClassStandard, enteredAt.Add(-time.Hour))
	require.True(t, b.MarkConfirmed("A-1"))
	require.True(t, b.MarkEntered(enteredAt))
	require.True(t, b.MarkExited())
	return b
}

func TestPaymentStageSettlesAndForwards(t *testing.T) {
	in := queue.NewBounded[*model.Booking](1)
	out := queue.NewBounded[string](1)
	bus := telemetry.NewBus(64)

	var (
		mu        sync.Mutex
		published []queue.BookingSettledEvent
	)
	publish := func(ctx context.Context, ev queue.BookingSettledEvent) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, ev)
		return nil
	}

	st := NewPaymentStage(in, out, offPeakCalculator(), "RM", publish, bus, StageLatencies{})
	entered := time.Date(2026, time.March, 14, 11, 0, 0, 0, time.Local)
	st.now = func() time.Time { return entered.Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx)
	<-st.Started()

	b := exitedBooking(t, entered)
	require.True(t, in.TryPut(b))

	takeCtx, takeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer takeCancel()
	line, err := out.Take(takeCtx)
	require.NoError(t, err)

	// 2 hours rounds up to one 24-hour unit at the Standard rate.
	assert.InDelta(t, 3.00, b.Fee(), 0.001)
	assert.Contains(t, line, "Fee: RM3.00")
	assert.Contains(t, line, "Slot: A-1")

	// The broker mirror is asynchronous; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(published)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 1)
	assert.Equal(t, "bk-1", published[0].BookingID)
	assert.Equal(t, uint32(300), published[0].FeeCents)
	assert.Equal(t, "A-1", published[0].Slot)
}

func TestPaymentStageWithoutPublisher(t *testing.T) {
	in := queue.NewBounded[*model.Booking](1)
	out := queue.NewBounded[string](1)
	st := NewPaymentStage(in, out, offPeakCalculator(), "RM", nil, telemetry.NewBus(16), StageLatencies{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx)
	<-st.Started()

	require.True(t, in.TryPut(exitedBooking(t, time.Now().Add(-time.Hour))))

	takeCtx, takeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer takeCancel()
	line, err := out.Take(takeCtx)
	require.NoError(t, err)
	assert.Contains(t, line, "Fee: RM3.00")
}

// flakySink fails its first append and accepts the rest.
type flakySink struct {
	mu    sync.Mutex
	calls int
	saved []string
}

func (s *flakySink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == 1 {
		return errors.New("disk full")
	}
	s.saved = append(s.saved, line)
	return nil
}

func (s *flakySink) snapshot() (int, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]string(nil), s.saved...)
}

func TestRecorderContinuesAfterWriteFailure(t *testing.T) {
	in := queue.NewBounded[string](2)
	sink := &flakySink{}
	st := NewRecorderStage(in, sink, telemetry.NewBus(64), StageLatencies{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx)
	<-st.Started()

	require.True(t, in.TryPut("first line"))
	require.True(t, in.TryPut("second line"))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if calls, _ := sink.snapshot(); calls >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	calls, saved := sink.snapshot()
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"second line"}, saved, "failed write dropped, later write saved")
}

func TestStageStopsWhileParked(t *testing.T) {
	in := queue.NewBounded[*model.Booking](1)
	st := NewEntryGate(in, telemetry.NewBus(16), StageLatencies{EntryGate: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go st.Run(ctx)
	<-st.Started()

	cancel()
	select {
	case <-st.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stage did not stop after cancellation")
	}
}
