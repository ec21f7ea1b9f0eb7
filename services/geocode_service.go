package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RainParade/rain-parade-backend/config"
	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/metrics"
	"github.com/RainParade/rain-parade-backend/types"
)

// GeocodeServiceInterface resolves a free-text place name to coordinates.
type GeocodeServiceInterface interface {
	Geocode(ctx context.Context, query string) (*types.GeocodeResult, error)
}

// GeocodeService resolves place names against Nominatim, falling back to the
// Open-Meteo geocoding API when Nominatim is unavailable.
type GeocodeService struct {
	nominatimURL string
	fallbackURL  string
	client       *http.Client
}

var _ GeocodeServiceInterface = (*GeocodeService)(nil)

func NewGeocodeService(cfg *config.WeatherConfig) *GeocodeService {
	return &GeocodeService{
		nominatimURL: cfg.NominatimURL,
		fallbackURL:  cfg.GeocodeBaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Geocode resolves query to an address and coordinates. A confirmed no-match
// from either provider returns a GeocodeNoMatch error; provider outages
// return an ExternalAPIError once both providers have failed.
func (s *GeocodeService) Geocode(ctx context.Context, query string) (*types.GeocodeResult, error) {
	log := logger.GetLogger()

	if query == "" {
		return nil, apperrors.ValidationFailed("Geocoding query is empty", "provide a place name")
	}

	result, err := s.geocodeNominatim(ctx, query)
	if err == nil {
		return result, nil
	}
	if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.GeocodeNoMatchError {
		return nil, err
	}

	log.Warnw("Nominatim geocoding failed, falling back to Open-Meteo",
		"query", query,
		"error", err)

	result, fallbackErr := s.geocodeOpenMeteo(ctx, query)
	if fallbackErr == nil {
		return result, nil
	}
	if appErr, ok := fallbackErr.(*apperrors.AppError); ok && appErr.Type == apperrors.GeocodeNoMatchError {
		return nil, fallbackErr
	}

	log.Errorw("Both geocoding services failed",
		"query", query,
		"nominatim_error", err,
		"fallback_error", fallbackErr)

	return nil, apperrors.ExternalAPIFailed("geocoding", fallbackErr)
}

func (s *GeocodeService) geocodeNominatim(ctx context.Context, query string) (*types.GeocodeResult, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.nominatimURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "RainParadeEventPlanner/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("nominatim", metrics.OutcomeError).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("nominatim", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("nominatim api error: %s", resp.Status)
	}

	var nominatimResp []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&nominatimResp); err != nil {
		metrics.UpstreamRequests.WithLabelValues("nominatim", metrics.OutcomeError).Inc()
		return nil, apperrors.MalformedResponse("nominatim", err.Error())
	}
	metrics.UpstreamRequests.WithLabelValues("nominatim", metrics.OutcomeSuccess).Inc()

	if len(nominatimResp) == 0 {
		return nil, apperrors.GeocodeNoMatch(query)
	}

	lat, err := strconv.ParseFloat(nominatimResp[0].Lat, 64)
	if err != nil {
		return nil, apperrors.MalformedResponse("nominatim", fmt.Sprintf("invalid latitude: %s", nominatimResp[0].Lat))
	}

	lon, err := strconv.ParseFloat(nominatimResp[0].Lon, 64)
	if err != nil {
		return nil, apperrors.MalformedResponse("nominatim", fmt.Sprintf("invalid longitude: %s", nominatimResp[0].Lon))
	}

	return &types.GeocodeResult{
		Address:   nominatimResp[0].DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func (s *GeocodeService) geocodeOpenMeteo(ctx context.Context, query string) (*types.GeocodeResult, error) {
	params := url.Values{}
	params.Add("name", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.fallbackURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("geocode", metrics.OutcomeError).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("geocode", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("geocoding API error: %s", resp.Status)
	}

	var geoResp struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		metrics.UpstreamRequests.WithLabelValues("geocode", metrics.OutcomeError).Inc()
		return nil, apperrors.MalformedResponse("geocoding API", err.Error())
	}
	metrics.UpstreamRequests.WithLabelValues("geocode", metrics.OutcomeSuccess).Inc()

	if len(geoResp.Results) == 0 {
		return nil, apperrors.GeocodeNoMatch(query)
	}

	address := geoResp.Results[0].Name
	if geoResp.Results[0].Country != "" {
		address = fmt.Sprintf("%s, %s", address, geoResp.Results[0].Country)
	}

	return &types.GeocodeResult{
		Address:   address,
		Latitude:  geoResp.Results[0].Latitude,
		Longitude: geoResp.Results[0].Longitude,
	}, nil
}
