package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Zones handles GET /v1/zones and returns the availability snapshot for
// every zone.  The response is a pure read of the ledger and is safe to
// cache briefly.
func (h *BookingHandler) Zones(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"zones": h.Coord.Ledger().Snapshot()})
}

// Records handles GET /v1/records and returns the most recent settled
// record lines from the durable file.  The optional ?limit query caps
// the count (default 50).
func (h *BookingHandler) Records(c echo.Context) error {
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	lines, err := h.Coord.Records().Recent(limit)
	if err != nil {
		c.Logger().Errorf("read records: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read records"})
	}
	if lines == nil {
		lines = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"records": lines})
}
