package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/RainParade/rain-parade-backend/cache"
	"github.com/RainParade/rain-parade-backend/config"
	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/metrics"
	"github.com/RainParade/rain-parade-backend/types"
)

const dateLayout = "2006-01-02"

// ForecastServiceInterface fetches the single-day forecast for an event.
type ForecastServiceInterface interface {
	FetchForecast(ctx context.Context, lat, lon float64, date time.Time) (*types.ForecastResult, error)
}

// ForecastService fetches single-day forecasts from the Open-Meteo forecast
// API. Responses are memoized keyed by (lat, lon, date) for the configured
// TTL so repeated reads within the window never re-issue the request.
type ForecastService struct {
	baseURL string
	ttl     time.Duration
	cache   cache.Cache
	client  *http.Client
}

var _ ForecastServiceInterface = (*ForecastService)(nil)

func NewForecastService(cfg *config.WeatherConfig, c cache.Cache) *ForecastService {
	return &ForecastService{
		baseURL: cfg.ForecastBaseURL,
		ttl:     cfg.ForecastTTL(),
		cache:   c,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// forecastKey includes every parameter that affects the result.
func forecastKey(lat, lon float64, date time.Time) string {
	return fmt.Sprintf("forecast:%.4f:%.4f:%s", lat, lon, date.Format(dateLayout))
}

// FetchForecast returns the hourly and daily forecast for the one requested
// date. A response without a daily block is not an error: the result carries
// a nil Daily and dependent views degrade.
func (s *ForecastService) FetchForecast(ctx context.Context, lat, lon float64, date time.Time) (*types.ForecastResult, error) {
	log := logger.GetLogger()
	key := forecastKey(lat, lon, date)

	if raw, ok, _ := s.cache.Get(ctx, key); ok {
		var cached types.ForecastResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheLookups.WithLabelValues("forecast", metrics.ResultHit).Inc()
			log.Debugw("Forecast served from cache", "key", key)
			return &cached, nil
		}
		log.Warnw("Discarding undecodable forecast cache entry", "key", key)
	}
	metrics.CacheLookups.WithLabelValues("forecast", metrics.ResultMiss).Inc()

	result, err := s.fetchUpstream(ctx, lat, lon, date)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		// Cache write failures only cost a refetch later.
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}

	return result, nil
}

func (s *ForecastService) fetchUpstream(ctx context.Context, lat, lon float64, date time.Time) (*types.ForecastResult, error) {
	day := date.Format(dateLayout)

	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%f", lat))
	params.Add("longitude", fmt.Sprintf("%f", lon))
	params.Add("start_date", day)
	params.Add("end_date", day)
	params.Add("hourly", "temperature_2m,relative_humidity_2m,precipitation_probability")
	params.Add("daily", "temperature_2m_max,temperature_2m_min,windspeed_10m_max")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, apperrors.ExternalAPIFailed("forecast API", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("forecast", metrics.OutcomeError).Inc()
		return nil, apperrors.ExternalAPIFailed("forecast API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("forecast", metrics.OutcomeError).Inc()
		return nil, apperrors.ExternalAPIFailed("forecast API", fmt.Errorf("status: %s", resp.Status))
	}

	var payload struct {
		Hourly struct {
			Time                     []string  `json:"time"`
			Temperature2m            []float64 `json:"temperature_2m"`
			RelativeHumidity2m       []float64 `json:"relative_humidity_2m"`
			PrecipitationProbability []float64 `json:"precipitation_probability"`
		} `json:"hourly"`
		Daily struct {
			Temperature2mMax []float64 `json:"temperature_2m_max"`
			Temperature2mMin []float64 `json:"temperature_2m_min"`
			WindSpeed10mMax  []float64 `json:"windspeed_10m_max"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("forecast", metrics.OutcomeError).Inc()
		return nil, apperrors.MalformedResponse("forecast API", err.Error())
	}
	metrics.UpstreamRequests.WithLabelValues("forecast", metrics.OutcomeSuccess).Inc()

	hourly := make([]types.HourlyForecast, 0, len(payload.Hourly.Time))
	for i := range payload.Hourly.Time {
		timestamp, err := time.Parse("2006-01-02T15:04", payload.Hourly.Time[i])
		if err != nil {
			return nil, apperrors.MalformedResponse("forecast API", fmt.Sprintf("failed to parse time: %v", err))
		}
		if i >= len(payload.Hourly.Temperature2m) ||
			i >= len(payload.Hourly.RelativeHumidity2m) ||
			i >= len(payload.Hourly.PrecipitationProbability) {
			return nil, apperrors.MalformedResponse("forecast API", "hourly arrays are not parallel")
		}
		hourly = append(hourly, types.HourlyForecast{
			Timestamp:                timestamp,
			Temperature2m:            payload.Hourly.Temperature2m[i],
			RelativeHumidity2m:       payload.Hourly.RelativeHumidity2m[i],
			PrecipitationProbability: payload.Hourly.PrecipitationProbability[i],
		})
	}

	result := &types.ForecastResult{
		Latitude:  lat,
		Longitude: lon,
		Date:      day,
		Hourly:    hourly,
	}

	// The classifier input is always the first (only) daily record of the
	// single requested date. Without it no prediction happens downstream.
	if len(payload.Daily.Temperature2mMax) > 0 &&
		len(payload.Daily.Temperature2mMin) > 0 &&
		len(payload.Daily.WindSpeed10mMax) > 0 {
		result.Daily = &types.DailySummary{
			TemperatureMax: payload.Daily.Temperature2mMax[0],
			TemperatureMin: payload.Daily.Temperature2mMin[0],
			WindSpeedMax:   payload.Daily.WindSpeed10mMax[0],
		}
	}

	return result, nil
}
