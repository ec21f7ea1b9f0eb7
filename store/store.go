// Package store defines the persistence interfaces consumed by the service
// layer, keeping handlers decoupled from the concrete Postgres implementation.
package store

import (
	"context"
	"errors"

	"github.com/RainParade/rain-parade-backend/types"
)

// ErrEventNotFound is returned when no event exists for the given ID.
var ErrEventNotFound = errors.New("event not found")

// EventStore persists event configurations.
type EventStore interface {
	CreateEvent(ctx context.Context, event *types.EventConfig) (string, error)
	GetEvent(ctx context.Context, id string) (*types.EventConfig, error)
	ListEvents(ctx context.Context) ([]types.EventConfig, error)
	UpdateEvent(ctx context.Context, event *types.EventConfig) error
	DeleteEvent(ctx context.Context, id string) error
}
