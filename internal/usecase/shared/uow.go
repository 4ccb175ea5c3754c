package shared

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"

	"github.com/google/uuid"
)

// UnitOfWork is the transactional boundary the booking core requires of
// its store: row-locking transactions plus lock-free reads for
// pre-checks and projections.
type UnitOfWork interface {
	// Within runs fn in a read-committed transaction, retrying whole
	// operations on transient serialization/deadlock/lock-timeout
	// failures. Any error from fn rolls the transaction back completely.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads gives lock-free access for validation outside transactions.
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Capacities() CapacityRepository
	Reads() CommandReads
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	// FindByIDForUpdate takes the exclusive row lock that protects a
	// booking for the duration of an amend or cancel transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// ReplaceDays deletes the booking's occupancy rows and inserts the
	// given ascending day set.
	ReplaceDays(ctx context.Context, bookingID uuid.UUID, days []string) error
	// CountActiveOnDayLocked counts Active occupancy rows for a day,
	// locking the contributing rows so concurrent checks serialize.
	CountActiveOnDayLocked(ctx context.Context, day string, ignoreBookingID *uuid.UUID) (int, error)
	// HasActiveVehicleOverlap reports whether an Active booking for the
	// vehicle has a half-open window sharing at least one instant with
	// [fromDate, toMoment). Touching endpoints do not overlap.
	HasActiveVehicleOverlap(ctx context.Context, regNormalized string, fromDate, toMoment time.Time, ignoreBookingID *uuid.UUID) (bool, error)
}

type CapacityRepository interface {
	// EnsureAndLock upserts the capacity row for a day (default capacity
	// on first touch) and returns its capacity under an exclusive lock.
	EnsureAndLock(ctx context.Context, day string, defaultCapacity int) (int, error)
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	FingerprintInUse(ctx context.Context, fingerprint string) (bool, error)
	HasActiveVehicleOverlap(ctx context.Context, regNormalized string, fromDate, toMoment time.Time, ignoreBookingID *uuid.UUID) (bool, error)
}

// BookingSnapshot is the minimal read model command pre-checks need.
type BookingSnapshot struct {
	ID        uuid.UUID
	Reference string
	Status    booking.Status
	Version   int32
}
