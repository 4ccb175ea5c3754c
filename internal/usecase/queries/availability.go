package queries

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/pkg/errs"
)

type DayAvailability struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

type CalendarView struct {
	Days             []DayAvailability `json:"per_day"`
	AllDaysHaveSpace bool              `json:"all_days_have_space"`
}

type AvailabilityReadStore interface {
	CapacityOverrides(ctx context.Context, days []string) (map[string]int, error)
	ActiveBookedCounts(ctx context.Context, days []string) (map[string]int, error)
}

type AvailabilityQueries interface {
	// Calendar is a point-in-time, lock-free projection for display.
	// It must never gate a write; the authoritative check runs under
	// row locks inside the booking transaction.
	Calendar(ctx context.Context, fromDate, toMoment time.Time) (*CalendarView, error)
}

type availabilityQueriesImpl struct {
	store           AvailabilityReadStore
	defaultCapacity int
	loc             *time.Location
}

func NewAvailabilityQueries(store AvailabilityReadStore, defaultCapacity int, loc *time.Location) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:           store,
		defaultCapacity: defaultCapacity,
		loc:             loc,
	}
}

func (q *availabilityQueriesImpl) Calendar(ctx context.Context, fromDate, toMoment time.Time) (*CalendarView, error) {
	rng, err := booking.NewDateRange(fromDate, toMoment, q.loc)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	days := rng.OccupiedDays()

	view := &CalendarView{Days: []DayAvailability{}, AllDaysHaveSpace: true}
	if len(days) == 0 {
		return view, nil
	}

	caps, err := q.store.CapacityOverrides(ctx, days)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreFailure)
	}
	counts, err := q.store.ActiveBookedCounts(ctx, days)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreFailure)
	}

	for _, day := range days {
		capacity := q.defaultCapacity
		if override, ok := caps[day]; ok {
			capacity = override
		}
		booked := counts[day]
		available := max(0, capacity-booked)
		if available == 0 {
			view.AllDaysHaveSpace = false
		}
		view.Days = append(view.Days, DayAvailability{
			Date:      day,
			Capacity:  capacity,
			Booked:    booked,
			Available: available,
		})
	}

	return view, nil
}
