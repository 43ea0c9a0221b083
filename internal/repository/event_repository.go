package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
	SetClosed(ctx context.Context, id string, closed bool) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, location, starts_at, capacity, registered, is_closed, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (id, title, description, location, starts_at, capacity, registered, is_closed)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.Capacity,
		event.Registered,
		event.IsClosed,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, location=$3, starts_at=$4, capacity=$5,
            is_closed=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.Capacity,
		event.IsClosed,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.Capacity,
		&event.Registered,
		&event.IsClosed,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.Capacity,
			&event.Registered,
			&event.IsClosed,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) SetClosed(ctx context.Context, id string, closed bool) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE events SET is_closed=$1, updated_at=NOW() WHERE id=$2`, closed, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
