package handlers

import (
	"errors"
	"net/http"
	"time"

	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/services"
	"github.com/RainParade/rain-parade-backend/store"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler exposes CRUD operations over event configurations plus the
// location-resolution endpoint backing the map and search box.
type EventHandler struct {
	store   store.EventStore
	geocode services.GeocodeServiceInterface
	log     *zap.SugaredLogger
}

func NewEventHandler(eventStore store.EventStore, geocodeService services.GeocodeServiceInterface) *EventHandler {
	return &EventHandler{
		store:   eventStore,
		geocode: geocodeService,
		log:     logger.GetLogger(),
	}
}

// CreateEvent creates a new event configuration. Omitted fields are seeded
// with the stock defaults so a bare {"name": "..."} body produces a fully
// usable event.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req types.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	event := types.EventConfig{
		Name:      req.Name,
		Latitude:  types.DefaultLatitude,
		Longitude: types.DefaultLongitude,
		EventDate: time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour),
		EventTime: types.DefaultEventTime,
		EventType: types.EventTypePicnic,
		CrowdSize: types.DefaultCrowdSize,
	}

	if req.Latitude != nil {
		event.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = *req.Longitude
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.EventTime != "" {
		event.EventTime = req.EventTime
	}
	if req.EventType != "" {
		event.EventType = req.EventType
	}
	if req.CrowdSize != nil {
		event.CrowdSize = *req.CrowdSize
	}

	if err := event.Validate(); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid event configuration", err.Error()))
		return
	}

	id, err := h.store.CreateEvent(c.Request.Context(), &event)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	event.ID = id

	h.log.Infow("Created event", "eventID", id, "name", event.Name)
	c.JSON(http.StatusCreated, event)
}

// GetEvent returns a single event configuration by ID.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEvents returns all stored event configurations.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// UpdateEvent applies a partial update to an event. Nil fields in the request
// leave the stored value untouched.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req types.EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Latitude != nil {
		event.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = *req.Longitude
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.EventTime != nil {
		event.EventTime = *req.EventTime
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.CrowdSize != nil {
		event.CrowdSize = *req.CrowdSize
	}

	if err := event.Validate(); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid event configuration", err.Error()))
		return
	}

	if err := h.store.UpdateEvent(c.Request.Context(), event); err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			_ = c.Error(apperrors.NotFound("Event", event.ID))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event configuration.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			_ = c.Error(apperrors.NotFound("Event", id))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateLocation sets an event's coordinates either from explicit
// latitude/longitude (a map click) or by geocoding a free-text query. A query
// that resolves to nothing is not an error: the response carries a warning
// and the stored coordinates stay as they were.
func (h *EventHandler) UpdateLocation(c *gin.Context) {
	var req types.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	var resolvedAddress string

	switch {
	case req.Latitude != nil && req.Longitude != nil:
		event.Latitude = *req.Latitude
		event.Longitude = *req.Longitude
	case req.Query != "":
		result, err := h.geocode.Geocode(c.Request.Context(), req.Query)
		if err != nil {
			// Geocoding never fails the request: a no-match or a
			// provider outage both leave the stored coordinates as
			// they were and come back as a warning.
			warning := "Geocoding service is currently unavailable. Please try again later."
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Type == apperrors.GeocodeNoMatchError {
				warning = "Could not find the location. Please try a different search term."
				h.log.Infow("Geocode query returned no match", "eventID", event.ID, "query", req.Query)
			} else {
				h.log.Warnw("Geocode request failed", "eventID", event.ID, "query", req.Query, "error", err)
			}
			c.JSON(http.StatusOK, gin.H{
				"event":   event,
				"warning": warning,
			})
			return
		}
		event.Latitude = result.Latitude
		event.Longitude = result.Longitude
		resolvedAddress = result.Address
	default:
		_ = c.Error(apperrors.ValidationFailed("Invalid location update", "either a query or both latitude and longitude are required"))
		return
	}

	if err := event.Validate(); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid event configuration", err.Error()))
		return
	}

	if err := h.store.UpdateEvent(c.Request.Context(), event); err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			_ = c.Error(apperrors.NotFound("Event", event.ID))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	response := gin.H{"event": event}
	if resolvedAddress != "" {
		response["resolved_address"] = resolvedAddress
	}
	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) loadEvent(c *gin.Context) (*types.EventConfig, bool) {
	return loadEventByID(c, h.store)
}

// loadEventByID fetches the event named by the :id path parameter, attaching
// the appropriate error to the context when it cannot.
func loadEventByID(c *gin.Context, s store.EventStore) (*types.EventConfig, bool) {
	id := c.Param("id")
	if id == "" {
		_ = c.Error(apperrors.ValidationFailed("Missing event ID", "event ID is required in the URL path"))
		return nil, false
	}

	event, err := s.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			_ = c.Error(apperrors.NotFound("Event", id))
			return nil, false
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return nil, false
	}
	return event, true
}
