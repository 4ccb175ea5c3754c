package repository

import (
	"context"

	"parkbook/internal/infra"
	"parkbook/internal/infra/db"
)

type CapacityRepository struct {
	db db.DBTX
}

func NewCapacityRepository(dbtx db.DBTX) *CapacityRepository {
	return &CapacityRepository{db: dbtx}
}

// EnsureAndLock lazily creates the capacity row for a day and returns
// its capacity under an exclusive row lock. Callers must touch days in
// ascending order; the shared lock order is what prevents deadlocks
// between overlapping capacity checks.
func (r *CapacityRepository) EnsureAndLock(ctx context.Context, day string, defaultCapacity int) (int, error) {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO capacities (day, capacity) VALUES ($1::date, $2) ON CONFLICT (day) DO NOTHING`,
		day, defaultCapacity,
	); err != nil {
		return 0, infra.WrapRepoErr("failed to ensure capacity row", err)
	}

	var capacity int
	if err := r.db.QueryRow(ctx,
		`SELECT capacity FROM capacities WHERE day = $1::date FOR UPDATE`,
		day,
	).Scan(&capacity); err != nil {
		return 0, infra.WrapRepoErr("failed to lock capacity row", err)
	}
	return capacity, nil
}
