package booking

import (
	"errors"
	"iter"
	"strings"
	"time"
)

var (
	ErrInvalidRange = errors.New("to must be after from")
)

const DayKeyFormat = "2006-01-02"

// DateRange is the window a booking occupies: a drop-off date and a
// pick-up instant. Occupancy is half-open [fromDate, toMoment) truncated
// to day granularity, so the pick-up day itself is never occupied.
// Immutable; rebuilt per request and never stored directly.
type DateRange struct {
	fromDate time.Time // start of day in the booking calendar
	toMoment time.Time
}

func NewDateRange(fromDate, toMoment time.Time, loc *time.Location) (DateRange, error) {
	from := startOfDay(fromDate.In(loc))
	to := toMoment.In(loc)
	if !to.After(from) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{fromDate: from, toMoment: to}, nil
}

func (r DateRange) FromDate() time.Time { return r.fromDate }
func (r DateRange) ToMoment() time.Time { return r.toMoment }

// EachOccupiedDay yields each occupied calendar day as a YYYY-MM-DD key,
// in chronological order. The day containing the pick-up moment is
// excluded; a range that starts and ends on the same calendar day yields
// nothing. The sequence is restartable.
func (r DateRange) EachOccupiedDay() iter.Seq[string] {
	return func(yield func(string) bool) {
		checkoutDayStart := startOfDay(r.toMoment)
		for current := r.fromDate; current.Before(checkoutDayStart); current = current.AddDate(0, 0, 1) {
			if !yield(current.Format(DayKeyFormat)) {
				return
			}
		}
	}
}

// OccupiedDays materializes EachOccupiedDay into an ascending slice.
func (r DateRange) OccupiedDays() []string {
	var days []string
	for d := range r.EachOccupiedDay() {
		days = append(days, d)
	}
	return days
}

func (r DateRange) Nights() int {
	n := 0
	for range r.EachOccupiedDay() {
		n++
	}
	return n
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Money is an exact minor-unit amount. Derived on demand from the stored
// integer, never cached separately from it.
type Money struct {
	minor    int64
	currency string
}

func NewMoney(minor int64, currency string) Money {
	return Money{minor: minor, currency: currency}
}

func (m Money) Minor() int64     { return m.minor }
func (m Money) Currency() string { return m.currency }

func (m Money) Add(amountMinor int64) Money {
	return Money{minor: m.minor + amountMinor, currency: m.currency}
}

// NormalizeEmail lowers and trims for both storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeReg strips all whitespace and uppercases; used for overlap
// matching and the idempotency fingerprint, never for display.
func NormalizeReg(reg string) string {
	return strings.ToUpper(strings.Join(strings.Fields(reg), ""))
}

// DisplayReg keeps the registration readable: uppercase with inner
// whitespace collapsed to single spaces.
func DisplayReg(reg string) string {
	return strings.ToUpper(strings.Join(strings.Fields(reg), " "))
}
