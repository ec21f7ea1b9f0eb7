package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RainParade/rain-parade-backend/store"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockPool creates a mock pool for testing
func createMockPool(t *testing.T) (pgxmock.PgxPoolIface, func()) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	cleanup := func() {
		mock.Close()
	}

	return mock, cleanup
}

func createTestEvent() *types.EventConfig {
	return &types.EventConfig{
		Name:      "Company picnic",
		Latitude:  28.40,
		Longitude: 77.31,
		EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EventTime: "18:00",
		EventType: types.EventTypePicnic,
		CrowdSize: 500,
	}
}

func TestEventStore_CreateEvent(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	event := createTestEvent()
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(event.Name, event.Latitude, event.Longitude, event.EventDate,
			event.EventTime, string(event.EventType), event.CrowdSize).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(id, now, now))

	createdID, err := s.CreateEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, id.String(), createdID)
	assert.Equal(t, id.String(), event.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_GetEvent(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	id := uuid.New()
	now := time.Now()
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, latitude, longitude`).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "latitude", "longitude", "event_date", "event_time",
			"event_type", "crowd_size", "created_at", "updated_at",
		}).AddRow(id, "Company picnic", 28.40, 77.31, eventDate, "18:00", "Picnic", 500, now, now))

	event, err := s.GetEvent(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), event.ID)
	assert.Equal(t, "Company picnic", event.Name)
	assert.Equal(t, types.EventTypePicnic, event.EventType)
	assert.Equal(t, 500, event.CrowdSize)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventStore_GetEvent_NotFound(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, latitude, longitude`).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "latitude", "longitude", "event_date", "event_time",
			"event_type", "crowd_size", "created_at", "updated_at",
		}))

	_, err := s.GetEvent(context.Background(), id.String())
	assert.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestEventStore_ListEvents(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	now := time.Now()
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, latitude, longitude`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "latitude", "longitude", "event_date", "event_time",
			"event_type", "crowd_size", "created_at", "updated_at",
		}).
			AddRow(uuid.New(), "Picnic", 28.40, 77.31, eventDate, "18:00", "Picnic", 500, now, now).
			AddRow(uuid.New(), "Wedding", 51.50, -0.12, eventDate, "14:00", "Wedding", 120, now, now))

	events, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, types.EventTypeWedding, events[1].EventType)
}

func TestEventStore_UpdateEvent(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	event := createTestEvent()
	event.ID = uuid.NewString()
	updatedAt := time.Now()

	mock.ExpectQuery(`UPDATE events`).
		WithArgs(event.Name, event.Latitude, event.Longitude, event.EventDate,
			event.EventTime, string(event.EventType), event.CrowdSize, event.ID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	err := s.UpdateEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, updatedAt, event.UpdatedAt)
}

func TestEventStore_UpdateEvent_NotFound(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	event := createTestEvent()
	event.ID = uuid.NewString()

	mock.ExpectQuery(`UPDATE events`).
		WithArgs(event.Name, event.Latitude, event.Longitude, event.EventDate,
			event.EventTime, string(event.EventType), event.CrowdSize, event.ID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

	err := s.UpdateEvent(context.Background(), event)
	assert.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestEventStore_DeleteEvent(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	id := uuid.NewString()

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.DeleteEvent(context.Background(), id))
}

func TestEventStore_DeleteEvent_NotFound(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	id := uuid.NewString()

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, s.DeleteEvent(context.Background(), id), store.ErrEventNotFound)
}

func TestEventStore_CreateEvent_DBError(t *testing.T) {
	mock, cleanup := createMockPool(t)
	defer cleanup()

	s := NewEventStore(mock)
	event := createTestEvent()

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(event.Name, event.Latitude, event.Longitude, event.EventDate,
			event.EventTime, string(event.EventType), event.CrowdSize).
		WillReturnError(errors.New("connection reset"))

	_, err := s.CreateEvent(context.Background(), event)
	assert.Error(t, err)
}
