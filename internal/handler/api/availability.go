package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "parkbook/internal/handler/dto/request"
	resdto "parkbook/internal/handler/dto/response"
	"parkbook/internal/handler/httperr"
	"parkbook/internal/pkg/clock"
	"parkbook/internal/pkg/config"
	"parkbook/internal/pkg/errs"
	"parkbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
	cfg                 config.BookingConfig
	loc                 *time.Location
	clock               clock.Clock
}

func NewAvailabilityHandler(
	availabilityQueries queries.AvailabilityQueries,
	cfg config.BookingConfig,
	loc *time.Location,
	clk clock.Clock,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
		cfg:                 cfg,
		loc:                 loc,
		clock:               clk,
	}
}

// @Summary Availability calendar
// @Description Per-day capacity, booked count and remaining spaces for a window
// @Tags availability
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Checkout moment (RFC3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	var q reqdto.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Missing from/to query parameters", nil)
		return
	}

	from, to, err := q.Window(h.clock.Now(), h.loc, h.cfg)
	if err != nil {
		abortQueryWindowError(c, err)
		return
	}

	view, err := h.availabilityQueries.Calendar(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRange) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCalendarView(view))
}

func abortQueryWindowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reqdto.ErrFromDateInPast),
		errors.Is(err, reqdto.ErrStayTooLong),
		errors.Is(err, reqdto.ErrHorizonExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Window outside bookable range", nil)
	default:
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
	}
}
