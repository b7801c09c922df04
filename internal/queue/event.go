// Package queue payload definitions for messages exchanged over the broker.
package queue

// BookingSettledEvent is published once a booking's fee is settled and
// its record line handed to the recorder.  It carries enough information for
// downstream consumers to log, notify, or feed analytics without access
// to the in-process booking registry.
type BookingSettledEvent struct {
	BookingID string `json:"booking_id"`
	Requester string `json:"requester"`
	AssetID   string `json:"asset_id"`
	Zone      string `json:"zone"`
	Slot      string `json:"slot"`
	SpotClass string `json:"spot_class"`
	EnteredAt string `json:"entered_at,omitempty"`
	SettledAt string `json:"settled_at"`
	FeeCents  uint32 `json:"fee_cents"`
}
