package request

import (
	"time"

	"parkbook/internal/pkg/config"
)

// WindowQuery binds the from/to query parameters shared by the
// availability and price endpoints.
type WindowQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func (q WindowQuery) Window(now time.Time, loc *time.Location, cfg config.BookingConfig) (time.Time, time.Time, error) {
	return parseWindow(q.From, q.To, now, loc, cfg)
}
