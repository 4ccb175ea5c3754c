package commands

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/domain/pricing"
	"parkbook/internal/infra"
	"parkbook/internal/pkg/config"
	"parkbook/internal/pkg/errs"
	"parkbook/internal/usecase/queries"
	"parkbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	CustomerName  string
	CustomerEmail string
	VehicleReg    string
	FromDate      time.Time
	ToMoment      time.Time
}

type AmendBookingParams struct {
	CustomerName  *string
	CustomerEmail *string
	VehicleReg    *string
	FromDate      time.Time
	ToMoment      time.Time
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error)
	Amend(ctx context.Context, id uuid.UUID, params AmendBookingParams) (*queries.BookingView, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	pricer         *pricing.Service
	bookingQueries queries.BookingQueries
	cfg            config.BookingConfig
	loc            *time.Location
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	pricer *pricing.Service,
	bookingQueries queries.BookingQueries,
	cfg config.BookingConfig,
	loc *time.Location,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		pricer:         pricer,
		bookingQueries: bookingQueries,
		cfg:            cfg,
		loc:            loc,
	}
}

func (u *bookingUseCaseImpl) Create(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error) {
	rng, err := booking.NewDateRange(params.FromDate, params.ToMoment, u.loc)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	// Lock-free pre-checks reject the common duplicate/overlap cases
	// before any locks are taken. The same checks run again inside the
	// transaction; the unique fingerprint column is the final word.
	fingerprint := booking.Fingerprint(params.CustomerEmail, params.VehicleReg, rng)
	reads := u.uow.CommandReads()

	inUse, err := reads.FingerprintInUse(ctx, fingerprint)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreFailure)
	}
	if inUse {
		return nil, errs.ErrDuplicateSubmission
	}

	days := rng.OccupiedDays()
	regNormalized := booking.NormalizeReg(params.VehicleReg)
	overlaps, err := reads.HasActiveVehicleOverlap(ctx, regNormalized, rng.FromDate(), rng.ToMoment(), nil)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreFailure)
	}
	if overlaps {
		return nil, errs.ErrVehicleOverlap
	}

	quote := u.pricer.Quote(rng)
	b := booking.NewBooking(
		u.cfg.ReferencePrefix,
		params.CustomerName, params.CustomerEmail, params.VehicleReg,
		rng,
		booking.NewMoney(quote.TotalMinor, quote.Currency),
	)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := assertRangeHasSpace(ctx, tx, days, u.cfg.DefaultCapacity, nil); err != nil {
			return err
		}

		overlaps, err := tx.Reads().HasActiveVehicleOverlap(ctx, regNormalized, rng.FromDate(), rng.ToMoment(), nil)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		if overlaps {
			return errs.ErrVehicleOverlap
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			// Concurrent submissions land here: both passed the
			// pre-checks, one wins at the constraint.
			if infra.IsKind(err, infra.KindConflict) {
				if infra.IsExclusionViolation(err) {
					return errs.Mark(err, errs.ErrVehicleOverlap)
				}
				return errs.Mark(err, errs.ErrDuplicateSubmission)
			}
			return errs.Mark(err, errs.ErrStoreFailure)
		}

		if err := tx.Bookings().ReplaceDays(ctx, b.ID(), days); err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByID(ctx, b.ID())
}

func (u *bookingUseCaseImpl) Amend(ctx context.Context, id uuid.UUID, params AmendBookingParams) (*queries.BookingView, error) {
	rng, err := booking.NewDateRange(params.FromDate, params.ToMoment, u.loc)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}
	days := rng.OccupiedDays()
	quote := u.pricer.Quote(rng)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		if b.IsCancelled() {
			return errs.ErrBookingNotAmendable
		}

		// The booking's own days never block its amendment.
		bookingID := b.ID()
		if err := assertRangeHasSpace(ctx, tx, days, u.cfg.DefaultCapacity, &bookingID); err != nil {
			return err
		}

		regNormalized := b.RegNormalized()
		if params.VehicleReg != nil {
			regNormalized = booking.NormalizeReg(*params.VehicleReg)
		}
		overlaps, err := tx.Reads().HasActiveVehicleOverlap(ctx, regNormalized, rng.FromDate(), rng.ToMoment(), &bookingID)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		if overlaps {
			return errs.ErrVehicleOverlap
		}

		b.Amend(params.CustomerName, params.CustomerEmail, params.VehicleReg, rng, booking.NewMoney(quote.TotalMinor, quote.Currency))

		if err := tx.Bookings().Update(ctx, b); err != nil {
			if infra.IsExclusionViolation(err) {
				return errs.Mark(err, errs.ErrVehicleOverlap)
			}
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		if err := tx.Bookings().ReplaceDays(ctx, b.ID(), days); err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByID(ctx, id)
}

func (u *bookingUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return errs.Mark(err, errs.ErrStoreFailure)
		}

		if err := b.Cancel(); err != nil {
			return errs.Mark(err, errs.ErrAlreadyCancelled)
		}

		if err := tx.Bookings().Update(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrStoreFailure)
		}
		return nil
	})
}
