package repository

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/infra"
	"parkbook/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const q = `
		INSERT INTO bookings (
			id, reference, customer_name, customer_email,
			vehicle_reg, vehicle_reg_normalized,
			from_date, to_datetime, status,
			total_minor, currency, version, request_fingerprint
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, q,
		b.ID(), b.Reference(), b.CustomerName(), b.CustomerEmail(),
		b.VehicleReg(), b.RegNormalized(),
		b.FromDate(), b.ToMoment(), string(b.Status()),
		b.Total().Minor(), b.Total().Currency(), b.Version(), b.Fingerprint(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const q = `
		UPDATE bookings SET
			customer_name = $2, customer_email = $3,
			vehicle_reg = $4, vehicle_reg_normalized = $5,
			from_date = $6, to_datetime = $7, status = $8,
			total_minor = $9, currency = $10, version = $11,
			request_fingerprint = $12, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q,
		b.ID(), b.CustomerName(), b.CustomerEmail(),
		b.VehicleReg(), b.RegNormalized(),
		b.FromDate(), b.ToMoment(), string(b.Status()),
		b.Total().Minor(), b.Total().Currency(), b.Version(), b.Fingerprint(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, reference, customer_name, customer_email,
		       vehicle_reg, vehicle_reg_normalized,
		       from_date, to_datetime, status,
		       total_minor, currency, version, request_fingerprint,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	return scanBooking(r.db.QueryRow(ctx, q, id))
}

func (r *BookingRepository) ReplaceDays(ctx context.Context, bookingID uuid.UUID, days []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM booking_days WHERE booking_id = $1`, bookingID); err != nil {
		return infra.WrapRepoErr("failed to clear booking days", err)
	}

	for _, day := range days {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO booking_days (booking_id, day) VALUES ($1, $2::date)`,
			bookingID, day,
		); err != nil {
			return infra.WrapRepoErr("failed to insert booking day", err)
		}
	}
	return nil
}

func (r *BookingRepository) CountActiveOnDayLocked(ctx context.Context, day string, ignoreBookingID *uuid.UUID) (int, error) {
	// FOR UPDATE cannot sit next to an aggregate, so lock the
	// contributing rows in a subquery and count outside it.
	const q = `
		SELECT COUNT(*)
		FROM (
			SELECT bd.id
			FROM booking_days bd
			JOIN bookings b ON b.id = bd.booking_id
			WHERE bd.day = $1::date
			  AND b.status = 'active'
			  AND ($2::uuid IS NULL OR bd.booking_id <> $2)
			FOR UPDATE OF bd
		) locked`

	var booked int
	if err := r.db.QueryRow(ctx, q, day, ignoreBookingID).Scan(&booked); err != nil {
		return 0, infra.WrapRepoErr("failed to count booked days", err)
	}
	return booked, nil
}

func (r *BookingRepository) HasActiveVehicleOverlap(ctx context.Context, regNormalized string, fromDate, toMoment time.Time, ignoreBookingID *uuid.UUID) (bool, error) {
	// Half-open interval test: touching endpoints do not overlap.
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE vehicle_reg_normalized = $1
			  AND status = 'active'
			  AND from_date < $3
			  AND to_datetime > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, regNormalized, fromDate, toMoment, ignoreBookingID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check vehicle overlap", err)
	}
	return exists, nil
}

func scanBooking(row interface{ Scan(dest ...any) error }) (*booking.Booking, error) {
	var (
		id                       uuid.UUID
		reference, name, email   string
		reg, regNormalized       string
		fromDate, toMoment       time.Time
		status                   string
		totalMinor               int64
		currency                 string
		version                  int32
		fingerprint              *string
		createdAt, updatedAt     time.Time
	)

	err := row.Scan(
		&id, &reference, &name, &email,
		&reg, &regNormalized,
		&fromDate, &toMoment, &status,
		&totalMinor, &currency, &version, &fingerprint,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}

	return booking.ReconstructBooking(
		id, reference, name, email, reg, regNormalized,
		fromDate, toMoment,
		booking.Status(status),
		booking.NewMoney(totalMinor, currency),
		version, fingerprint,
		createdAt, updatedAt,
	), nil
}
