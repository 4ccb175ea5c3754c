package queries

import (
	"context"
	"time"

	"parkbook/internal/domain/booking"
	"parkbook/internal/domain/pricing"
	"parkbook/internal/pkg/errs"
)

type PricingQueries interface {
	Quote(ctx context.Context, fromDate, toMoment time.Time) (*pricing.Quote, error)
}

type pricingQueriesImpl struct {
	pricer *pricing.Service
	loc    *time.Location
}

func NewPricingQueries(pricer *pricing.Service, loc *time.Location) PricingQueries {
	return &pricingQueriesImpl{pricer: pricer, loc: loc}
}

func (q *pricingQueriesImpl) Quote(_ context.Context, fromDate, toMoment time.Time) (*pricing.Quote, error) {
	rng, err := booking.NewDateRange(fromDate, toMoment, q.loc)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRange)
	}

	quote := q.pricer.Quote(rng)
	return &quote, nil
}
