package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TriggerEntry handles POST /v1/bookings/:id/entry.  It offers the
// booking to the entry gate without blocking.  The gate itself decides
// whether the entry is valid; an admission here only means the trigger
// was queued.
func (h *BookingHandler) TriggerEntry(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if !h.Coord.TriggerEntry(b) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "queue full"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"booking_id": b.ID,
		"status":     b.Status(),
	})
}

// TriggerExit handles POST /v1/bookings/:id/exit with the same
// non-blocking contract as TriggerEntry.
func (h *BookingHandler) TriggerExit(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if !h.Coord.TriggerExit(b) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "queue full"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"booking_id": b.ID,
		"status":     b.Status(),
	})
}
