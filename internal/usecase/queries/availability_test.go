//go:build unit

package queries_test

import (
	"testing"
	"time"

	"parkbook/internal/pkg/errs"
	"parkbook/internal/usecase/queries"
	queriesmock "parkbook/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalendar(t *testing.T) {
	from := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 13, 11, 0, 0, 0, time.UTC)
	days := []string{"2026-07-10", "2026-07-11", "2026-07-12"}

	t.Run("merges overrides and booked counts per day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockAvailabilityReadStore(ctrl)
		store.EXPECT().CapacityOverrides(gomock.Any(), days).
			Return(map[string]int{"2026-07-11": 2}, nil)
		store.EXPECT().ActiveBookedCounts(gomock.Any(), days).
			Return(map[string]int{"2026-07-10": 1, "2026-07-11": 2}, nil)

		q := queries.NewAvailabilityQueries(store, 10, time.UTC)
		view, err := q.Calendar(t.Context(), from, to)
		require.NoError(t, err)

		want := &queries.CalendarView{
			AllDaysHaveSpace: false,
			Days: []queries.DayAvailability{
				{Date: "2026-07-10", Capacity: 10, Booked: 1, Available: 9},
				{Date: "2026-07-11", Capacity: 2, Booked: 2, Available: 0},
				{Date: "2026-07-12", Capacity: 10, Booked: 0, Available: 10},
			},
		}
		if diff := cmp.Diff(want, view); diff != "" {
			t.Errorf("calendar mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overbooked days clamp available to zero", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockAvailabilityReadStore(ctrl)
		store.EXPECT().CapacityOverrides(gomock.Any(), days).
			Return(map[string]int{"2026-07-10": 1}, nil)
		store.EXPECT().ActiveBookedCounts(gomock.Any(), days).
			Return(map[string]int{"2026-07-10": 3}, nil)

		q := queries.NewAvailabilityQueries(store, 10, time.UTC)
		view, err := q.Calendar(t.Context(), from, to)
		require.NoError(t, err)

		assert.Zero(t, view.Days[0].Available)
		assert.False(t, view.AllDaysHaveSpace)
	})

	t.Run("an empty window skips the store entirely", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockAvailabilityReadStore(ctrl)

		q := queries.NewAvailabilityQueries(store, 10, time.UTC)
		view, err := q.Calendar(t.Context(), from,
			time.Date(2026, 7, 10, 11, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Empty(t, view.Days)
		assert.True(t, view.AllDaysHaveSpace)
	})

	t.Run("an inverted window is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockAvailabilityReadStore(ctrl)

		q := queries.NewAvailabilityQueries(store, 10, time.UTC)
		_, err := q.Calendar(t.Context(), to, from)

		assert.ErrorIs(t, err, errs.ErrInvalidRange)
	})

	t.Run("store failures are marked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockAvailabilityReadStore(ctrl)
		store.EXPECT().CapacityOverrides(gomock.Any(), days).
			Return(nil, errs.New("connection reset"))

		q := queries.NewAvailabilityQueries(store, 10, time.UTC)
		_, err := q.Calendar(t.Context(), from, to)

		assert.ErrorIs(t, err, errs.ErrStoreFailure)
	})
}
