//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() pricing.Rates {
	return pricing.Rates{
		pricing.SeasonSummer: {
			pricing.DayTypeWeekday: 1500,
			pricing.DayTypeWeekend: 2000,
		},
		pricing.SeasonWinter: {
			pricing.DayTypeWeekday: 1000,
			pricing.DayTypeWeekend: 1200,
		},
	}
}

func newTestService(t *testing.T) *pricing.Service {
	t.Helper()
	svc, err := pricing.New(
		"GBP",
		testRates(),
		[]time.Month{time.June, time.July, time.August},
		[]time.Month{time.December, time.January, time.February},
		pricing.SeasonWinter,
		[]time.Weekday{time.Saturday, time.Sunday},
	)
	require.NoError(t, err)
	return svc
}

func mustRange(t *testing.T, from, to time.Time) booking.DateRange {
	t.Helper()
	rng, err := booking.NewDateRange(from, to, time.UTC)
	require.NoError(t, err)
	return rng
}

func TestQuote(t *testing.T) {
	svc := newTestService(t)

	t.Run("prices each occupied day by season and day type", func(t *testing.T) {
		// Fri 3 Jul – Mon 6 Jul 2026: weekday, weekend, weekend.
		rng := mustRange(t,
			time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 7, 6, 11, 0, 0, 0, time.UTC),
		)

		q := svc.Quote(rng)

		want := pricing.Quote{
			Currency:   "GBP",
			TotalMinor: 5500,
			Breakdown: []pricing.Line{
				{Date: "2026-07-03", Season: pricing.SeasonSummer, DayType: pricing.DayTypeWeekday, AmountMinor: 1500},
				{Date: "2026-07-04", Season: pricing.SeasonSummer, DayType: pricing.DayTypeWeekend, AmountMinor: 2000},
				{Date: "2026-07-05", Season: pricing.SeasonSummer, DayType: pricing.DayTypeWeekend, AmountMinor: 2000},
			},
		}
		if diff := cmp.Diff(want, q); diff != "" {
			t.Errorf("quote mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("uses winter rates in winter months", func(t *testing.T) {
		// Wed 7 Jan 2026.
		rng := mustRange(t,
			time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 8, 11, 0, 0, 0, time.UTC),
		)

		q := svc.Quote(rng)

		require.Len(t, q.Breakdown, 1)
		assert.Equal(t, pricing.SeasonWinter, q.Breakdown[0].Season)
		assert.Equal(t, int64(1000), q.TotalMinor)
	})

	t.Run("falls back to the default season for unmapped months", func(t *testing.T) {
		// Wed 15 Apr 2026: April is in neither month list.
		rng := mustRange(t,
			time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 16, 11, 0, 0, 0, time.UTC),
		)

		q := svc.Quote(rng)

		require.Len(t, q.Breakdown, 1)
		assert.Equal(t, pricing.SeasonWinter, q.Breakdown[0].Season)
	})

	t.Run("spanning a season boundary prices each day in its own season", func(t *testing.T) {
		// 31 Aug (summer) into 1 Sep (default winter), both weekdays in 2026.
		rng := mustRange(t,
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
		)

		q := svc.Quote(rng)

		require.Len(t, q.Breakdown, 2)
		assert.Equal(t, pricing.SeasonSummer, q.Breakdown[0].Season)
		assert.Equal(t, pricing.SeasonWinter, q.Breakdown[1].Season)
		assert.Equal(t, int64(2500), q.TotalMinor)
	})

	t.Run("an empty range quotes to zero", func(t *testing.T) {
		rng := mustRange(t,
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC),
		)

		q := svc.Quote(rng)

		assert.Zero(t, q.TotalMinor)
		assert.Empty(t, q.Breakdown)
		assert.NotNil(t, q.Breakdown)
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects an incomplete rate matrix", func(t *testing.T) {
		rates := testRates()
		delete(rates[pricing.SeasonWinter], pricing.DayTypeWeekend)

		_, err := pricing.New("GBP", rates, nil, nil, pricing.SeasonWinter, nil)
		assert.ErrorContains(t, err, "missing rate")
	})

	t.Run("rejects an unknown default season", func(t *testing.T) {
		_, err := pricing.New("GBP", testRates(), nil, nil, pricing.Season("spring"), nil)
		assert.ErrorContains(t, err, "unknown default season")
	})
}
