package model

import (
	"fmt"
	"sync"
	"time"
)

// Status captures where a booking currently sits in its lifecycle.
// A booking only ever moves forward:
//
//	PENDING -> CONFIRMED -> ENTERED -> EXITED
//	PENDING -> REJECTED
//
// EXITED and REJECTED are terminal.  Invalid entry/exit triggers do not
// move the booking at all; the gate reports a denial and leaves the
// record untouched so the caller may retry with a corrected trigger.
type Status string

const (
	StatusPending   Status = "PENDING"   // created, waiting for a spot
	StatusConfirmed Status = "CONFIRMED" // spot assigned by the booking stage
	StatusEntered   Status = "ENTERED"   // vehicle is inside the facility
	StatusExited    Status = "EXITED"    // vehicle left, fee settled
	StatusRejected  Status = "REJECTED"  // zone was full, booking discarded
)

// SpotClass enumerates the spot categories, each with its own day rate.
type SpotClass string

const (
	ClassStandard   SpotClass = "Standard"
	ClassPriority   SpotClass = "Priority"
	ClassRestricted SpotClass = "Restricted"
)

// ParseSpotClass maps a request string onto a known class.  Unknown
// values fall back to Standard, mirroring how the rate table treats them.
func ParseSpotClass(s string) SpotClass {
	switch SpotClass(s) {
	case ClassPriority:
		return ClassPriority
	case ClassRestricted:
		return ClassRestricted
	default:
		return ClassStandard
	}
}

// Booking represents one parking reservation end to end.  It is created
// by the intake boundary and then handed between pipeline stages through
// bounded queues; the stage holding it is the only writer.  The boundary
// keeps a handle on the record too (for entry/exit triggers and status
// reads), so the mutable fields are guarded by a small mutex rather than
// left to chance.
//
// Fields:
//
//	ID          – identifier minted at intake (uuid).
//	Requester   – student or staff name.
//	AssetID     – vehicle license plate.
//	Zone        – requested parking zone (e.g. "A").
//	Class       – spot class, determines the day rate.
//	RequestedAt – when the booking was submitted.
type Booking struct {
	ID          string
	Requester   string
	AssetID     string
	Zone        string
	Class       SpotClass
	RequestedAt time.Time

	mu        sync.Mutex
	slot      string    // assigned spot, e.g. "A-15"; empty until reserved
	status    Status    // current lifecycle state
	enteredAt time.Time // actual entry instant; zero until the vehicle enters
	fee       float64   // settled fee; zero until payment runs
}

// NewBooking builds a PENDING booking for the given requester.
func NewBooking(id, requester, assetID, zone string, class SpotClass, requestedAt time.Time) *Booking {
	return &Booking{
		ID:          id,
		Requester:   requester,
		AssetID:     assetID,
		Zone:        zone,
		Class:       class,
		RequestedAt: requestedAt,
		status:      StatusPending,
	}
}

// Status returns the current lifecycle state.
func (b *Booking) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Slot returns the assigned spot number, or "" when none is assigned.
func (b *Booking) Slot() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slot
}

// EnteredAt returns the recorded entry instant (zero if never entered).
func (b *Booking) EnteredAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enteredAt
}

// Fee returns the settled fee (zero until payment processed the record).
func (b *Booking) Fee() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fee
}

// MarkConfirmed records the assigned slot and moves PENDING -> CONFIRMED.
// It reports false without mutating when the booking is not PENDING.
func (b *Booking) MarkConfirmed(slot string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusPending {
		return false
	}
	b.slot = slot
	b.status = StatusConfirmed
	return true
}

// MarkRejected moves PENDING -> REJECTED.
func (b *Booking) MarkRejected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusPending {
		return false
	}
	b.status = StatusRejected
	return true
}

// MarkEntered stamps the entry instant and moves CONFIRMED -> ENTERED.
// It reports false without mutating when the booking is not CONFIRMED,
// which the entry gate surfaces as a denial.
func (b *Booking) MarkEntered(at time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusConfirmed {
		return false
	}
	b.enteredAt = at
	b.status = StatusEntered
	return true
}

// MarkExited moves ENTERED -> EXITED.  It reports false without mutating
// when the booking is not ENTERED.
func (b *Booking) MarkExited() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusEntered {
		return false
	}
	b.status = StatusExited
	return true
}

// SetFee stamps the settled amount on the record.
func (b *Booking) SetFee(fee float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fee = fee
}

// String renders a short one-line summary used in telemetry.
func (b *Booking) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot := b.slot
	if slot == "" {
		slot = "Not Assigned"
	}
	return fmt.Sprintf("Booking[%s | %s | Zone %s | %s | Spot: %s | Status: %s]",
		b.Requester, b.AssetID, b.Zone, b.Class, slot, b.status)
}

// FileRecord renders the pipe-delimited durable record line appended by
// the recorder stage once the fee is settled:
//
//	[2006-01-02 15:04] Requester: <name> | Asset: <plate> | Zone: <z> | Slot: <z-n> | Fee: RM0.00
//
// The currency prefix is configurable, hence the parameter.
func (b *Booking) FileRecord(currencyPrefix string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot := b.slot
	if slot == "" {
		slot = "N/A"
	}
	return fmt.Sprintf("[%s] Requester: %s | Asset: %s | Zone: %s | Slot: %s | Fee: %s%.2f",
		b.RequestedAt.Format("2006-01-02 15:04"), b.Requester, b.AssetID, b.Zone, slot,
		currencyPrefix, b.fee)
}
