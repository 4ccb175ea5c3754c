package readstore

import (
	"context"

	"parkbook/internal/infra"
	"parkbook/internal/infra/db"
)

type AvailabilityReadStore struct {
	db db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{db: dbtx}
}

func (s *AvailabilityReadStore) CapacityOverrides(ctx context.Context, days []string) (map[string]int, error) {
	const q = `
		SELECT day::text, capacity
		FROM capacities
		WHERE day::text = ANY($1)`

	rows, err := s.db.Query(ctx, q, days)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read capacities", err)
	}
	defer rows.Close()

	overrides := make(map[string]int, len(days))
	for rows.Next() {
		var (
			day      string
			capacity int
		)
		if err := rows.Scan(&day, &capacity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan capacity row", err)
		}
		overrides[day] = capacity
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate capacities", err)
	}
	return overrides, nil
}

func (s *AvailabilityReadStore) ActiveBookedCounts(ctx context.Context, days []string) (map[string]int, error) {
	const q = `
		SELECT bd.day::text, COUNT(*)
		FROM booking_days bd
		JOIN bookings b ON b.id = bd.booking_id
		WHERE bd.day::text = ANY($1)
		  AND b.status = 'active'
		GROUP BY bd.day`

	rows, err := s.db.Query(ctx, q, days)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booked counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(days))
	for rows.Next() {
		var (
			day    string
			booked int
		)
		if err := rows.Scan(&day, &booked); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked count", err)
		}
		counts[day] = booked
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booked counts", err)
	}
	return counts, nil
}
