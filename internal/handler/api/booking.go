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
	"parkbook/internal/usecase/commands"
	"parkbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	cfg             config.BookingConfig
	loc             *time.Location
	clock           clock.Clock
}

func NewBookingHandler(
	bookingCommands commands.BookingCommands,
	bookingQueries queries.BookingQueries,
	cfg config.BookingConfig,
	loc *time.Location,
	clk clock.Clock,
) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		cfg:             cfg,
		loc:             loc,
		clock:           clk,
	}
}

// @Summary Create booking
// @Description Book parking for a window of days
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if err := req.ValidateReg(); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid vehicle registration", nil)
		return
	}

	from, to, err := req.Window(h.clock.Now(), h.loc, h.cfg)
	if err != nil {
		h.abortWindowError(c, err)
		return
	}

	view, err := h.bookingCommands.Create(c.Request.Context(), commands.CreateBookingParams{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		VehicleReg:    req.VehicleReg,
		FromDate:      from,
		ToMoment:      to,
	})
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Amend booking
// @Description Replace the window, price and optionally customer/vehicle details
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.AmendBookingRequest true "Amendment request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id} [put]
func (h *BookingHandler) AmendBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	var req reqdto.AmendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if err := req.ValidateReg(); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid vehicle registration", nil)
		return
	}

	from, to, err := req.Window(h.clock.Now(), h.loc, h.cfg)
	if err != nil {
		h.abortWindowError(c, err)
		return
	}

	view, err := h.bookingCommands.Amend(c.Request.Context(), id, commands.AmendBookingParams{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		VehicleReg:    req.VehicleReg,
		FromDate:      from,
		ToMoment:      to,
	})
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel an active booking, releasing its days
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	if err := h.bookingCommands.Cancel(c.Request.Context(), id); err != nil {
		h.abortCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) abortWindowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reqdto.ErrMalformedDate), errors.Is(err, errs.ErrInvalidRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
	case errors.Is(err, reqdto.ErrFromDateInPast):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Bookings must start today or later", nil)
	case errors.Is(err, reqdto.ErrStayTooLong):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Stay exceeds the maximum length", nil)
	case errors.Is(err, reqdto.ErrHorizonExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Bookings cannot start that far ahead", nil)
	default:
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
	}
}

func (h *BookingHandler) abortCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking window", nil)
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrDuplicateSubmission):
		httperr.AbortWithError(c, http.StatusConflict, err, "An identical booking was already submitted", nil)
	case errors.Is(err, errs.ErrVehicleOverlap):
		httperr.AbortWithError(c, http.StatusConflict, err, "Vehicle already has a booking over this window", nil)
	case errors.Is(err, errs.ErrCapacityExceeded):
		var capErr *commands.CapacityExceededError
		var detail any
		if errors.As(err, &capErr) {
			detail = gin.H{"day": capErr.Day}
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "No spaces available", detail)
	case errors.Is(err, errs.ErrAlreadyCancelled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already cancelled", nil)
	case errors.Is(err, errs.ErrBookingNotAmendable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancelled bookings cannot be amended", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
