package repository

import (
	"sync"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
)

// BookingRepo is the in-memory registry of bookings known to the
// boundary.  The intake handlers register a booking at submission time
// and look it up again when the caller triggers entry or exit; the
// pipeline stages themselves never consult the registry, they only see
// records handed to them through the queues.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]*model.Booking
}

// NewBookingRepo constructs an empty registry.
func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: make(map[string]*model.Booking)}
}

// Save registers a booking under its identifier, replacing any previous
// entry with the same id.
func (r *BookingRepo) Save(b *model.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

// GetByID returns the booking for the given identifier or
// ErrBookingNotFound.
func (r *BookingRepo) GetByID(id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// Delete removes a booking from the registry.  Deleting an unknown id
// is a no-op.
func (r *BookingRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
}

// Count returns the number of registered bookings.
func (r *BookingRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}
