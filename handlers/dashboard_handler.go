package handlers

import (
	"net/http"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/services"
	"github.com/RainParade/rain-parade-backend/store"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler serves the read-only weather views for an event: the
// forecast dashboard, the historical rainfall record, and the risk-tier
// suggestion. Each view is recomputed on request from the stored event
// configuration, and each degrades independently when its inputs are
// unavailable rather than failing the whole response.
type DashboardHandler struct {
	store      store.EventStore
	forecast   services.ForecastServiceInterface
	history    services.HistoryServiceInterface
	prediction services.PredictionServiceInterface
	log        *zap.SugaredLogger
}

func NewDashboardHandler(
	eventStore store.EventStore,
	forecastService services.ForecastServiceInterface,
	historyService services.HistoryServiceInterface,
	predictionService services.PredictionServiceInterface,
) *DashboardHandler {
	return &DashboardHandler{
		store:      eventStore,
		forecast:   forecastService,
		history:    historyService,
		prediction: predictionService,
		log:        logger.GetLogger(),
	}
}

// ForecastView is the dashboard's forecast section. Available is false when
// the upstream fetch failed; Daily is absent when the provider returned no
// daily block.
type ForecastView struct {
	Available      bool                   `json:"available"`
	Reason         string                 `json:"reason,omitempty"`
	Date           string                 `json:"date,omitempty"`
	Hourly         []types.HourlyForecast `json:"hourly,omitempty"`
	Daily          *types.DailySummary    `json:"daily,omitempty"`
	EventHourIndex *int                   `json:"event_hour_index,omitempty"`
}

// PredictionView is the dashboard's rain-prediction section.
type PredictionView struct {
	Available  bool              `json:"available"`
	Reason     string            `json:"reason,omitempty"`
	Prediction *types.Prediction `json:"prediction,omitempty"`
	Suggestion *types.Suggestion `json:"suggestion,omitempty"`
}

// GetDashboard returns the full dashboard for an event: the event
// configuration, the hourly forecast with the event-time marker, and the
// rain prediction. Sections that cannot be computed are marked unavailable
// while the rest of the response stays intact.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	event, ok := loadEventByID(c, h.store)
	if !ok {
		return
	}

	forecastView := h.buildForecastView(c, event)
	predictionView := h.buildPredictionView(forecastView.Daily)

	c.JSON(http.StatusOK, gin.H{
		"event":      event,
		"forecast":   forecastView,
		"prediction": predictionView,
	})
}

// GetHistory returns the rainfall totals for the event's calendar day across
// the previous five years. Years the archive could not serve are simply
// absent from the list.
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	event, ok := loadEventByID(c, h.store)
	if !ok {
		return
	}

	record, err := h.history.FetchHistory(c.Request.Context(), event.Latitude, event.Longitude, event.EventDate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := gin.H{
		"latitude":  record.Latitude,
		"longitude": record.Longitude,
		"date":      record.Date,
		"years":     record.Years,
	}
	if len(record.Years) > 0 {
		var total float64
		for _, y := range record.Years {
			total += y.RainfallMM
		}
		response["average_rainfall_mm"] = total / float64(len(record.Years))
	}

	c.JSON(http.StatusOK, response)
}

// GetSuggestions returns the risk tier and recommendation for the event.
func (h *DashboardHandler) GetSuggestions(c *gin.Context) {
	event, ok := loadEventByID(c, h.store)
	if !ok {
		return
	}

	forecastView := h.buildForecastView(c, event)
	predictionView := h.buildPredictionView(forecastView.Daily)

	if !predictionView.Available {
		c.JSON(http.StatusOK, predictionView)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":  true,
		"risk_tier":  predictionView.Suggestion.RiskTier,
		"message":    predictionView.Suggestion.Message,
		"prediction": predictionView.Prediction,
	})
}

func (h *DashboardHandler) buildForecastView(c *gin.Context, event *types.EventConfig) ForecastView {
	result, err := h.forecast.FetchForecast(c.Request.Context(), event.Latitude, event.Longitude, event.EventDate)
	if err != nil {
		h.log.Warnw("Forecast unavailable for dashboard", "eventID", event.ID, "error", err)
		return ForecastView{
			Available: false,
			Reason:    "Could not fetch weather data. The service may be temporarily down.",
		}
	}

	view := ForecastView{
		Available: true,
		Date:      result.Date,
		Hourly:    result.Hourly,
		Daily:     result.Daily,
	}

	if idx := eventHourIndex(event, result.Hourly); idx >= 0 {
		view.EventHourIndex = &idx
	}

	return view
}

func (h *DashboardHandler) buildPredictionView(daily *types.DailySummary) PredictionView {
	if !h.prediction.Available() {
		return PredictionView{
			Available: false,
			Reason:    "Rain prediction model is not available.",
		}
	}
	if daily == nil {
		return PredictionView{
			Available: false,
			Reason:    "Daily forecast data required for prediction is not available.",
		}
	}

	prediction, err := h.prediction.Predict(daily)
	if err != nil {
		h.log.Warnw("Prediction failed", "error", err)
		return PredictionView{
			Available: false,
			Reason:    "Rain prediction could not be computed.",
		}
	}

	suggestion := services.SuggestionFor(*prediction)
	return PredictionView{
		Available:  true,
		Prediction: prediction,
		Suggestion: &suggestion,
	}
}

// eventHourIndex finds the hourly slot covering the event's planned time of
// day, for the chart's vertical marker. Returns -1 when the hour is not in
// the series or the event time cannot be parsed.
func eventHourIndex(event *types.EventConfig, hourly []types.HourlyForecast) int {
	ts, err := event.EventTimestamp()
	if err != nil {
		return -1
	}
	for i, h := range hourly {
		if h.Timestamp.Hour() == ts.Hour() {
			return i
		}
	}
	return -1
}
