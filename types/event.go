package types

import (
	"fmt"
	"time"
)

// EventType is the closed set of event categories a user can plan for.
type EventType string

const (
	EventTypePicnic  EventType = "Picnic"
	EventTypeConcert EventType = "Concert"
	EventTypeWedding EventType = "Wedding"
	EventTypeSports  EventType = "Sports"
	EventTypeOther   EventType = "Other"
)

// Crowd size bounds imposed on user input.
const (
	MinCrowdSize = 50
	MaxCrowdSize = 10000
)

// Default event configuration seeded when a new event omits fields.
const (
	DefaultLatitude  = 28.40
	DefaultLongitude = 77.31
	DefaultEventTime = "18:00"
	DefaultCrowdSize = 500
)

// EventConfig is the single source of truth consumed by every downstream
// component: the forecast and history fetchers read its coordinates and date,
// the dashboard reads its time for the chart marker.
type EventConfig struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	EventDate time.Time `json:"event_date"`
	// EventTime is the planned time of day in HH:MM (24h) form.
	EventTime string    `json:"event_time"`
	EventType EventType `json:"event_type"`
	CrowdSize int       `json:"crowd_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventCreateRequest carries user input for creating an event. Omitted fields
// fall back to the defaults above.
type EventCreateRequest struct {
	Name      string     `json:"name" binding:"required"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	EventDate *time.Time `json:"event_date"`
	EventTime string     `json:"event_time"`
	EventType EventType  `json:"event_type"`
	CrowdSize *int       `json:"crowd_size"`
}

// EventUpdateRequest carries partial updates to an event. Nil fields are
// left unchanged.
type EventUpdateRequest struct {
	Name      *string    `json:"name"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	EventDate *time.Time `json:"event_date"`
	EventTime *string    `json:"event_time"`
	EventType *EventType `json:"event_type"`
	CrowdSize *int       `json:"crowd_size"`
}

// LocationUpdateRequest sets an event's coordinates either from a free-text
// geocoding query or from a direct map click.
type LocationUpdateRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ValidEventTypes lists the accepted event categories in display order.
func ValidEventTypes() []EventType {
	return []EventType{
		EventTypePicnic,
		EventTypeConcert,
		EventTypeWedding,
		EventTypeSports,
		EventTypeOther,
	}
}

// IsValid reports whether the event type is one of the closed set.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypePicnic, EventTypeConcert, EventTypeWedding, EventTypeSports, EventTypeOther:
		return true
	}
	return false
}

// ParseEventTime parses an HH:MM time-of-day string.
func ParseEventTime(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event time %q: %w", s, err)
	}
	return t, nil
}

// EventTimestamp combines the event date and HH:MM time into a single
// timestamp, used to place the marker on the hourly chart.
func (e *EventConfig) EventTimestamp() (time.Time, error) {
	tod, err := ParseEventTime(e.EventTime)
	if err != nil {
		return time.Time{}, err
	}
	d := e.EventDate
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, d.Location()), nil
}

// Validate checks the bounds the UI used to impose on user input.
func (e *EventConfig) Validate() error {
	if e.Latitude < -90 || e.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %f", e.Latitude)
	}
	if e.Longitude < -180 || e.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %f", e.Longitude)
	}
	if !e.EventType.IsValid() {
		return fmt.Errorf("invalid event type: %s", e.EventType)
	}
	if e.CrowdSize < MinCrowdSize || e.CrowdSize > MaxCrowdSize {
		return fmt.Errorf("crowd size out of range [%d, %d]: %d", MinCrowdSize, MaxCrowdSize, e.CrowdSize)
	}
	if _, err := ParseEventTime(e.EventTime); err != nil {
		return err
	}
	return nil
}
