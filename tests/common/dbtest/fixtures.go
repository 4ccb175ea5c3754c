//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SetDayCapacity upserts an explicit capacity for a day.
func SetDayCapacity(t *testing.T, db DBLike, day string, capacity int) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO capacities (day, capacity) VALUES ($1::date, $2)
		 ON CONFLICT (day) DO UPDATE SET capacity = EXCLUDED.capacity`,
		day, capacity)
	require.NoError(t, err)
}

// InsertBooking writes an active booking row plus its occupancy rows,
// bypassing the API. Days are half-open: toDay itself is not occupied.
func InsertBooking(t *testing.T, db DBLike, email, reg, fromDay, toDay string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	from, err := time.Parse("2006-01-02", fromDay)
	require.NoError(t, err)
	to, err := time.Parse("2006-01-02", toDay)
	require.NoError(t, err)

	id := uuid.New()
	reference := "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	regNormalized := strings.ToUpper(strings.Join(strings.Fields(reg), ""))

	_, err = db.Exec(ctx,
		`INSERT INTO bookings (
			id, reference, customer_name, customer_email,
			vehicle_reg, vehicle_reg_normalized,
			from_date, to_datetime, status, total_minor, currency, version
		) VALUES ($1, $2, 'Fixture Customer', $3, $4, $5, $6, $7, 'active', 0, 'GBP', 1)`,
		id, reference, email, reg, regNormalized, from, to)
	require.NoError(t, err)

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		_, err = db.Exec(ctx,
			`INSERT INTO booking_days (booking_id, day) VALUES ($1, $2::date)`,
			id, d.Format("2006-01-02"))
		require.NoError(t, err)
	}

	return id
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
