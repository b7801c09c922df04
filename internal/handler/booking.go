// Package handler implements the HTTP boundary of the parking facility.
// Handlers never block on the pipeline: a submission or gate trigger is
// offered to its bounded queue and the caller is told immediately
// whether it was accepted.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/pipeline"
	"github.com/salimi-my/campus-parking-spot-booking/internal/repository"
)

// BookingHandler groups the coordinator and the booking registry needed
// to accept submissions, trigger gates and answer status queries.
type BookingHandler struct {
	Coord    *pipeline.Coordinator
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies
// must be non-nil.
func NewBookingHandler(coord *pipeline.Coordinator, bookings *repository.BookingRepo) *BookingHandler {
	if coord == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Coord: coord, Bookings: bookings}
}

// bookingRequest is the submission body.
type bookingRequest struct {
	Requester string `json:"requester"`
	AssetID   string `json:"asset_id"`
	Zone      string `json:"zone"`
	SpotClass string `json:"spot_class"`
}

// Submit handles POST /v1/bookings.  It registers a PENDING booking and
// offers it to the reservation stage.  A full queue yields 503 with
// "queue full"; the caller decides whether to retry.  Acceptance (202)
// means the booking was queued, not that a spot is guaranteed.
func (h *BookingHandler) Submit(c echo.Context) error {
	var body bookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Requester = strings.TrimSpace(body.Requester)
	body.AssetID = strings.TrimSpace(body.AssetID)
	body.Zone = strings.TrimSpace(body.Zone)
	if body.Requester == "" || body.AssetID == "" || body.Zone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requester, asset_id and zone are required"})
	}
	if h.Coord.Ledger().Capacity(body.Zone) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
	}

	b := model.NewBooking(
		uuid.NewString(),
		body.Requester,
		body.AssetID,
		body.Zone,
		model.ParseSpotClass(body.SpotClass),
		time.Now(),
	)
	h.Bookings.Save(b)

	if !h.Coord.SubmitBooking(b) {
		h.Bookings.Delete(b.ID)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "queue full"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"booking_id": b.ID,
		"status":     b.Status(),
	})
}

// Get handles GET /v1/bookings/:id and returns a snapshot of the
// booking's current state.
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Bookings.GetByID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, bookingView(b))
}

// bookingView flattens a booking into the response shape.
func bookingView(b *model.Booking) echo.Map {
	view := echo.Map{
		"booking_id":   b.ID,
		"requester":    b.Requester,
		"asset_id":     b.AssetID,
		"zone":         b.Zone,
		"spot_class":   b.Class,
		"requested_at": b.RequestedAt,
		"status":       b.Status(),
	}
	if slot := b.Slot(); slot != "" {
		view["slot"] = slot
	}
	if at := b.EnteredAt(); !at.IsZero() {
		view["entered_at"] = at
	}
	if fee := b.Fee(); fee > 0 {
		view["fee"] = fee
	}
	return view
}
