package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking() *Booking {
	requested := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	return NewBooking("bk-1", "Aina", "WXY 1234", "A", ClassStandard, requested)
}

func TestLifecycleHappyPath(t *testing.T) {
	b := newTestBooking()
	assert.Equal(t, StatusPending, b.Status())

	require.True(t, b.MarkConfirmed("A-3"))
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, "A-3", b.Slot())

	entered := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	require.True(t, b.MarkEntered(entered))
	assert.Equal(t, StatusEntered, b.Status())
	assert.Equal(t, entered, b.EnteredAt())

	require.True(t, b.MarkExited())
	assert.Equal(t, StatusExited, b.Status())
}

func TestRejectionIsTerminal(t *testing.T) {
	b := newTestBooking()
	require.True(t, b.MarkRejected())
	assert.Equal(t, StatusRejected, b.Status())

	assert.False(t, b.MarkConfirmed("A-1"))
	assert.False(t, b.MarkEntered(time.Now()))
	assert.False(t, b.MarkExited())
	assert.Equal(t, StatusRejected, b.Status())
	assert.Empty(t, b.Slot())
}

func TestInvalidTransitionsDoNotMutate(t *testing.T) {
	b := newTestBooking()

	// Entry and exit before a spot is assigned are denials.
	assert.False(t, b.MarkEntered(time.Now()))
	assert.False(t, b.MarkExited())
	assert.Equal(t, StatusPending, b.Status())
	assert.True(t, b.EnteredAt().IsZero())

	require.True(t, b.MarkConfirmed("A-1"))

	// A second confirmation loses; the first slot stands.
	assert.False(t, b.MarkConfirmed("A-2"))
	assert.Equal(t, "A-1", b.Slot())

	// Exit before entry is a denial.
	assert.False(t, b.MarkExited())
	assert.Equal(t, StatusConfirmed, b.Status())

	require.True(t, b.MarkEntered(time.Now()))
	assert.False(t, b.MarkRejected())

	require.True(t, b.MarkExited())
	assert.False(t, b.MarkEntered(time.Now()), "terminal state admits no further movement")
	assert.False(t, b.MarkExited())
}

func TestParseSpotClass(t *testing.T) {
	assert.Equal(t, ClassPriority, ParseSpotClass("Priority"))
	assert.Equal(t, ClassRestricted, ParseSpotClass("Restricted"))
	assert.Equal(t, ClassStandard, ParseSpotClass("Standard"))
	assert.Equal(t, ClassStandard, ParseSpotClass(""))
	assert.Equal(t, ClassStandard, ParseSpotClass("VIP"))
}

func TestFileRecordFormat(t *testing.T) {
	b := newTestBooking()
	require.True(t, b.MarkConfirmed("A-3"))
	b.SetFee(4.5)

	got := b.FileRecord("RM")
	assert.Equal(t, "[2026-03-14 09:30] Requester: Aina | Asset: WXY 1234 | Zone: A | Slot: A-3 | Fee: RM4.50", got)
}

func TestFileRecordWithoutSlot(t *testing.T) {
	b := newTestBooking()
	got := b.FileRecord("RM")
	assert.Contains(t, got, "Slot: N/A")
	assert.Contains(t, got, "Fee: RM0.00")
}
