package commands

import (
	"context"
	"fmt"

	"parkbook/internal/pkg/errs"
	"parkbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// CapacityExceededError reports the first day of the window with no
// space left. It is always marked with errs.ErrCapacityExceeded so
// callers can match either the sentinel or the day.
type CapacityExceededError struct {
	Day string
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("no spaces available on %s", e.Day)
}

// assertRangeHasSpace is the authoritative capacity gate. Days must be
// ascending: capacity rows are locked in day order so that concurrent
// bookings over overlapping windows cannot deadlock. For each day it
// locks the capacity row, counts Active occupancy under the same lock
// and fails fast on the first full day.
func assertRangeHasSpace(
	ctx context.Context,
	tx shared.Tx,
	days []string,
	defaultCapacity int,
	ignoreBookingID *uuid.UUID,
) error {
	for _, day := range days {
		capacity, err := tx.Capacities().EnsureAndLock(ctx, day, defaultCapacity)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}

		booked, err := tx.Bookings().CountActiveOnDayLocked(ctx, day, ignoreBookingID)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}

		if booked >= capacity {
			return errs.Mark(&CapacityExceededError{Day: day}, errs.ErrCapacityExceeded)
		}
	}
	return nil
}
