package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// RegistrationRepository is the authoritative store for who is registered
// for which event. Register and Unregister keep the event's denormalized
// counter in step with the registration rows inside one transaction.
type RegistrationRepository interface {
	Register(ctx context.Context, reg *domain.Registration) error
	Unregister(ctx context.Context, eventID, userID string) (*domain.Registration, error)
	Reconcile(ctx context.Context, eventID string) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListForEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	TimestampsForEvent(ctx context.Context, eventID string) ([]time.Time, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationColumns = `id, event_id, user_id, user_name, user_email, ticket_qr_data, registered_at`

// Register performs the whole check-then-act sequence as one transaction.
// The event row is locked with SELECT ... FOR UPDATE so concurrent attempts
// for the last slot serialize; duplicate check, capacity check, insert and
// counter increment commit or roll back together. Overbooking and counter
// drift are impossible on this path.
func (r *registrationRepository) Register(ctx context.Context, reg *domain.Registration) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var capacity, registered int
	var isClosed bool
	err = tx.QueryRow(ctx,
		`SELECT capacity, registered, is_closed FROM events WHERE id=$1 FOR UPDATE`,
		reg.EventID,
	).Scan(&capacity, &registered, &isClosed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id=$1 AND user_id=$2`,
		reg.EventID, reg.UserID,
	).Scan(&dupCount)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		return ErrDuplicateRegistration
	}

	if isClosed {
		return ErrEventClosed
	}
	if capacity > 0 && registered >= capacity {
		return ErrEventFull
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, event_id, user_id, user_name, user_email, ticket_qr_data, registered_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		reg.ID, reg.EventID, reg.UserID, reg.UserName, reg.UserEmail, reg.TicketQRData, reg.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET registered = registered + 1, updated_at=NOW() WHERE id=$1`,
		reg.EventID,
	)
	if err != nil {
		return fmt.Errorf("increment registered count: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Unregister removes the sole registration for (eventID, userID) and
// decrements the counter, floored at zero, in the same transaction.
func (r *registrationRepository) Unregister(ctx context.Context, eventID, userID string) (reg *domain.Registration, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `SELECT 1 FROM events WHERE id=$1 FOR UPDATE`, eventID)
	if err != nil {
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	query := `DELETE FROM registrations WHERE event_id=$1 AND user_id=$2 RETURNING ` + registrationColumns
	var deleted domain.Registration
	err = tx.QueryRow(ctx, query, eventID, userID).Scan(
		&deleted.ID,
		&deleted.EventID,
		&deleted.UserID,
		&deleted.UserName,
		&deleted.UserEmail,
		&deleted.TicketQRData,
		&deleted.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete registration: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET registered = GREATEST(registered - 1, 0), updated_at=NOW() WHERE id=$1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement registered count: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &deleted, nil
}

// Reconcile recomputes the denormalized counter from the registration rows
// and overwrites it. Idempotent; kept as a repair tool for storage-layer
// anomalies since the registration path itself is transactional.
func (r *registrationRepository) Reconcile(ctx context.Context, eventID string) (int, error) {
	var corrected int
	err := r.pool.QueryRow(ctx,
		`UPDATE events
		 SET registered = (SELECT COUNT(*) FROM registrations WHERE event_id=$1), updated_at=NOW()
		 WHERE id=$1
		 RETURNING registered`,
		eventID,
	).Scan(&corrected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("reconcile registered count: %w", err)
	}
	return corrected, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id=$1`
	var reg domain.Registration
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reg.ID,
		&reg.EventID,
		&reg.UserID,
		&reg.UserName,
		&reg.UserEmail,
		&reg.TicketQRData,
		&reg.RegisteredAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id=$1 ORDER BY registered_at DESC`
	return r.list(ctx, query, userID)
}

func (r *registrationRepository) ListForEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id=$1 ORDER BY registered_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) list(ctx context.Context, query string, arg any) ([]domain.Registration, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.EventID,
			&reg.UserID,
			&reg.UserName,
			&reg.UserEmail,
			&reg.TicketQRData,
			&reg.RegisteredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}

// TimestampsForEvent returns registration times in ascending order, used by
// the growth projection.
func (r *registrationRepository) TimestampsForEvent(ctx context.Context, eventID string) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT registered_at FROM registrations WHERE event_id=$1 ORDER BY registered_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		result = append(result, ts)
	}
	return result, rows.Err()
}
