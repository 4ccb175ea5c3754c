//go:build unit

package booking_test

import (
	"regexp"
	"testing"
	"time"

	"parkbook/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T) *booking.Booking {
	t.Helper()
	rng := mustRange(t,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 4, 11, 0, 0, 0, time.UTC),
	)
	return booking.NewBooking("BK-", " Jane Doe ", "Jane@Example.com", "ab12 cde", rng, booking.NewMoney(4500, "GBP"))
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Regexp(t, regexp.MustCompile(`^BK-[0-9A-F]{32}$`), b.Reference())
	assert.Equal(t, "Jane Doe", b.CustomerName())
	assert.Equal(t, "jane@example.com", b.CustomerEmail())
	assert.Equal(t, "AB12 CDE", b.VehicleReg())
	assert.Equal(t, "AB12CDE", b.RegNormalized())
	assert.Equal(t, booking.StatusActive, b.Status())
	assert.True(t, b.IsActive())
	assert.Equal(t, int32(1), b.Version())
	assert.Equal(t, int64(4500), b.Total().Minor())
	require.NotNil(t, b.Fingerprint())
	assert.Len(t, *b.Fingerprint(), 64)
}

func TestAmend(t *testing.T) {
	t.Run("bumps version and leaves the fingerprint untouched", func(t *testing.T) {
		b := newTestBooking(t)
		originalFP := *b.Fingerprint()

		newRange := mustRange(t,
			time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 7, 5, 11, 0, 0, 0, time.UTC),
		)
		b.Amend(nil, nil, nil, newRange, booking.NewMoney(6000, "GBP"))

		assert.Equal(t, int32(2), b.Version())
		assert.Equal(t, newRange.FromDate(), b.FromDate())
		assert.Equal(t, newRange.ToMoment(), b.ToMoment())
		assert.Equal(t, int64(6000), b.Total().Minor())
		require.NotNil(t, b.Fingerprint())
		assert.Equal(t, originalFP, *b.Fingerprint())
	})

	t.Run("nil fields keep their current values", func(t *testing.T) {
		b := newTestBooking(t)
		rng := mustRange(t, b.FromDate(), b.ToMoment())

		b.Amend(nil, nil, nil, rng, b.Total())

		assert.Equal(t, "Jane Doe", b.CustomerName())
		assert.Equal(t, "jane@example.com", b.CustomerEmail())
		assert.Equal(t, "AB12 CDE", b.VehicleReg())
	})

	t.Run("provided fields are normalized", func(t *testing.T) {
		b := newTestBooking(t)
		rng := mustRange(t, b.FromDate(), b.ToMoment())

		name := "  John Smith "
		email := "John@Example.COM"
		reg := "zz99  zzz"
		b.Amend(&name, &email, &reg, rng, b.Total())

		assert.Equal(t, "John Smith", b.CustomerName())
		assert.Equal(t, "john@example.com", b.CustomerEmail())
		assert.Equal(t, "ZZ99 ZZZ", b.VehicleReg())
		assert.Equal(t, "ZZ99ZZZ", b.RegNormalized())
	})
}

func TestCancel(t *testing.T) {
	t.Run("marks cancelled and clears the fingerprint", func(t *testing.T) {
		b := newTestBooking(t)

		require.NoError(t, b.Cancel())

		assert.True(t, b.IsCancelled())
		assert.Nil(t, b.Fingerprint())
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel())

		assert.ErrorIs(t, b.Cancel(), booking.ErrAlreadyCancelled)
	})
}

func TestFingerprint(t *testing.T) {
	rng := mustRange(t,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 4, 11, 0, 0, 0, time.UTC),
	)

	t.Run("is stable across normalization variants", func(t *testing.T) {
		a := booking.Fingerprint("Jane@Example.com", "AB12 CDE", rng)
		b := booking.Fingerprint(" jane@example.com ", "ab12cde", rng)
		assert.Equal(t, a, b)
	})

	t.Run("changes with any input", func(t *testing.T) {
		base := booking.Fingerprint("jane@example.com", "AB12CDE", rng)

		assert.NotEqual(t, base, booking.Fingerprint("john@example.com", "AB12CDE", rng))
		assert.NotEqual(t, base, booking.Fingerprint("jane@example.com", "ZZ99ZZZ", rng))

		shifted := mustRange(t,
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC),
		)
		assert.NotEqual(t, base, booking.Fingerprint("jane@example.com", "AB12CDE", shifted))
	})
}
