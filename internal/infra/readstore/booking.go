package readstore

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/infra"
	"parkbook/internal/infra/db"
	"parkbook/internal/usecase/queries"
	"parkbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT id, reference, customer_name, customer_email, vehicle_reg,
		       from_date, to_datetime, status, total_minor, currency,
		       version, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	var v queries.BookingView
	if err := s.db.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.Reference, &v.CustomerName, &v.CustomerEmail, &v.VehicleReg,
		&v.FromDate, &v.ToMoment, &v.Status, &v.TotalMinor, &v.Currency,
		&v.Version, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return &v, nil
}

func (s *BookingReadStore) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const q = `SELECT id, reference, status, version FROM bookings WHERE id = $1`

	var (
		snap   shared.BookingSnapshot
		status string
	)
	if err := s.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Reference, &status, &snap.Version,
	); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking snapshot", err)
	}
	snap.Status = booking.Status(status)
	return &snap, nil
}

func (s *BookingReadStore) FingerprintInUse(ctx context.Context, fingerprint string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE request_fingerprint = $1 AND status = 'active'
		)`

	var inUse bool
	if err := s.db.QueryRow(ctx, q, fingerprint).Scan(&inUse); err != nil {
		return false, infra.WrapRepoErr("failed to check fingerprint", err)
	}
	return inUse, nil
}

func (s *BookingReadStore) HasActiveVehicleOverlap(ctx context.Context, regNormalized string, fromDate, toMoment time.Time, ignoreBookingID *uuid.UUID) (bool, error) {
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

	var overlaps bool
	if err := s.db.QueryRow(ctx, q, regNormalized, fromDate, toMoment, ignoreBookingID).Scan(&overlaps); err != nil {
		return false, infra.WrapRepoErr("failed to check vehicle overlap", err)
	}
	return overlaps, nil
}
