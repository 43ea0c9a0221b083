package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckInRepository persists successful door scans when scan persistence is
// enabled. The live session tally never depends on these rows.
type CheckInRepository interface {
	Record(ctx context.Context, id, eventID, registrationID string, scannedAt time.Time) error
	CountForEvent(ctx context.Context, eventID string) (int, error)
}

type checkInRepository struct {
	pool *pgxpool.Pool
}

// NewCheckInRepository instantiates repository.
func NewCheckInRepository(pool *pgxpool.Pool) CheckInRepository {
	return &checkInRepository{pool: pool}
}

func (r *checkInRepository) Record(ctx context.Context, id, eventID, registrationID string, scannedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO checkins (id, event_id, registration_id, scanned_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (registration_id) DO NOTHING`,
		id, eventID, registrationID, scannedAt,
	)
	return err
}

func (r *checkInRepository) CountForEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM checkins WHERE event_id=$1`, eventID,
	).Scan(&count)
	return count, err
}
