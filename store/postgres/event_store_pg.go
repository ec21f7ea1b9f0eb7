package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/RainParade/rain-parade-backend/store"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the store needs. Satisfied by both
// *pgxpool.Pool and pgxmock's pool in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EventStore is the Postgres-backed implementation of store.EventStore.
type EventStore struct {
	db Querier
}

var _ store.EventStore = (*EventStore)(nil)

func NewEventStore(db Querier) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) CreateEvent(ctx context.Context, event *types.EventConfig) (string, error) {
	query := `
		INSERT INTO events (name, latitude, longitude, event_date, event_time, event_type, crowd_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	var id uuid.UUID
	err := s.db.QueryRow(ctx, query,
		event.Name,
		event.Latitude,
		event.Longitude,
		event.EventDate,
		event.EventTime,
		string(event.EventType),
		event.CrowdSize,
	).Scan(&id, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return "", err
	}

	event.ID = id.String()
	return event.ID, nil
}

func (s *EventStore) GetEvent(ctx context.Context, id string) (*types.EventConfig, error) {
	query := `
		SELECT id, name, latitude, longitude, event_date, event_time, event_type, crowd_size, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventStore) ListEvents(ctx context.Context) ([]types.EventConfig, error) {
	query := `
		SELECT id, name, latitude, longitude, event_date, event_time, event_type, crowd_size, created_at, updated_at
		FROM events
		ORDER BY event_date, created_at
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.EventConfig, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (s *EventStore) UpdateEvent(ctx context.Context, event *types.EventConfig) error {
	query := `
		UPDATE events
		SET name = $1,
			latitude = $2,
			longitude = $3,
			event_date = $4,
			event_time = $5,
			event_type = $6,
			crowd_size = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := s.db.QueryRow(ctx, query,
		event.Name,
		event.Latitude,
		event.Longitude,
		event.EventDate,
		event.EventTime,
		string(event.EventType),
		event.CrowdSize,
		event.ID,
	).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrEventNotFound
	}
	if err != nil {
		return err
	}

	event.UpdatedAt = updatedAt
	return nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrEventNotFound
	}
	return nil
}

// scanEvent reads one event row. Row order must match the SELECT column list.
func scanEvent(row pgx.Row) (*types.EventConfig, error) {
	var event types.EventConfig
	var id uuid.UUID
	var eventType string

	err := row.Scan(
		&id,
		&event.Name,
		&event.Latitude,
		&event.Longitude,
		&event.EventDate,
		&event.EventTime,
		&eventType,
		&event.CrowdSize,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.ID = id.String()
	event.EventType = types.EventType(eventType)
	return &event, nil
}
