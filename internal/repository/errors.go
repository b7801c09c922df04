// Package repository defines error types that are reused across the
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrBookingNotFound indicates that an entry or exit trigger
// referenced an identifier the registry has never seen, while
// ErrStoreClosed signals that the record store was already shut down.
package repository

import "errors"

// ErrBookingNotFound is returned when a lookup references an unknown
// booking identifier. Handlers should translate this into an HTTP 404
// response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrStoreClosed is returned when an append or read is attempted after
// the record store has been closed during shutdown.
var ErrStoreClosed = errors.New("record store closed")
