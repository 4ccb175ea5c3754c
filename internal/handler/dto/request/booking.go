package request

import (
	"regexp"
	"strings"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/pkg/config"
	"parkbook/internal/pkg/errs"
)

var (
	ErrMalformedDate   = errs.New("malformed date")
	ErrFromDateInPast  = errs.New("from_date is in the past")
	ErrStayTooLong     = errs.New("stay exceeds the maximum length")
	ErrHorizonExceeded = errs.New("from_date is beyond the booking horizon")
	ErrInvalidReg      = errs.New("invalid vehicle registration")
)

var regPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{0,19}$`)

type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,max=120"`
	CustomerEmail string `json:"customer_email" binding:"required,email,max=120"`
	VehicleReg    string `json:"vehicle_reg" binding:"required,max=20"`
	FromDate      string `json:"from_date" binding:"required"`
	ToMoment      string `json:"to_datetime" binding:"required"`
}

func (r CreateBookingRequest) ValidateReg() error {
	return validateReg(r.VehicleReg)
}

func (r CreateBookingRequest) Window(now time.Time, loc *time.Location, cfg config.BookingConfig) (time.Time, time.Time, error) {
	return parseWindow(r.FromDate, r.ToMoment, now, loc, cfg)
}

type AmendBookingRequest struct {
	CustomerName  *string `json:"customer_name,omitempty" binding:"omitempty,max=120"`
	CustomerEmail *string `json:"customer_email,omitempty" binding:"omitempty,email,max=120"`
	VehicleReg    *string `json:"vehicle_reg,omitempty" binding:"omitempty,max=20"`
	FromDate      string  `json:"from_date" binding:"required"`
	ToMoment      string  `json:"to_datetime" binding:"required"`
}

func (r AmendBookingRequest) ValidateReg() error {
	if r.VehicleReg == nil {
		return nil
	}
	return validateReg(*r.VehicleReg)
}

func (r AmendBookingRequest) Window(now time.Time, loc *time.Location, cfg config.BookingConfig) (time.Time, time.Time, error) {
	return parseWindow(r.FromDate, r.ToMoment, now, loc, cfg)
}

func validateReg(reg string) error {
	if !regPattern.MatchString(strings.TrimSpace(reg)) {
		return ErrInvalidReg
	}
	return nil
}

// parseWindow parses and bounds-checks a booking window against the
// caller's calendar: from today onward, within the quote horizon, and
// no longer than the maximum stay.
func parseWindow(fromStr, toStr string, now time.Time, loc *time.Location, cfg config.BookingConfig) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(booking.DayKeyFormat, fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Mark(err, ErrMalformedDate)
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Mark(err, ErrMalformedDate)
	}
	to = to.In(loc)

	nowLocal := now.In(loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)

	if from.Before(today) {
		return time.Time{}, time.Time{}, ErrFromDateInPast
	}
	if from.After(today.AddDate(0, 0, cfg.QuoteHorizonDays)) {
		return time.Time{}, time.Time{}, ErrHorizonExceeded
	}

	rng, err := booking.NewDateRange(from, to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Mark(err, errs.ErrInvalidRange)
	}
	if rng.Nights() > cfg.MaxStayDays {
		return time.Time{}, time.Time{}, ErrStayTooLong
	}

	return from, to, nil
}
