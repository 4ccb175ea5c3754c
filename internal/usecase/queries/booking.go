package queries

import (
	"context"
	"time"

	"parkbook/internal/infra"
	"parkbook/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read model (DTO for read side)
type BookingView struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	VehicleReg    string    `json:"vehicle_reg"`
	FromDate      time.Time `json:"from_date"`
	ToMoment      time.Time `json:"to_datetime"`
	Status        string    `json:"status"`
	TotalMinor    int64     `json:"total_minor"`
	Currency      string    `json:"currency"`
	Version       int32     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStoreFailure)
	}
	return view, nil
}
