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
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/metrics"
	"github.com/RainParade/rain-parade-backend/types"
)

// historyYears is how many past years of the event's calendar day are fetched.
const historyYears = 5

// HistoryServiceInterface fetches past rainfall totals for an event's day.
type HistoryServiceInterface interface {
	FetchHistory(ctx context.Context, lat, lon float64, date time.Time) (*types.HistoryRecord, error)
}

// HistoryService fetches daily rainfall totals for the event's calendar day
// across the previous five years from the Open-Meteo archive API. The offset
// is a fixed 365-day step, not calendar-year subtraction, so the returned
// month/day drifts slightly across leap years.
type HistoryService struct {
	baseURL string
	ttl     time.Duration
	cache   cache.Cache
	client  *http.Client
}

var _ HistoryServiceInterface = (*HistoryService)(nil)

func NewHistoryService(cfg *config.WeatherConfig, c cache.Cache) *HistoryService {
	return &HistoryService{
		baseURL: cfg.ArchiveBaseURL,
		ttl:     cfg.HistoryTTL(),
		cache:   c,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func historyKey(lat, lon float64, date time.Time) string {
	return fmt.Sprintf("history:%.4f:%.4f:%s", lat, lon, date.Format(dateLayout))
}

// FetchHistory issues one archive request per year offset and collects the
// results oldest first. Individual failures are skipped, never fatal: the
// record carries 0 to 5 years. Memoized for the configured TTL.
func (s *HistoryService) FetchHistory(ctx context.Context, lat, lon float64, date time.Time) (*types.HistoryRecord, error) {
	log := logger.GetLogger()
	key := historyKey(lat, lon, date)

	if raw, ok, _ := s.cache.Get(ctx, key); ok {
		var cached types.HistoryRecord
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.CacheLookups.WithLabelValues("history", metrics.ResultHit).Inc()
			log.Debugw("History served from cache", "key", key)
			return &cached, nil
		}
		log.Warnw("Discarding undecodable history cache entry", "key", key)
	}
	metrics.CacheLookups.WithLabelValues("history", metrics.ResultMiss).Inc()

	record := &types.HistoryRecord{
		Latitude:  lat,
		Longitude: lon,
		Date:      date.Format(dateLayout),
		Years:     make([]types.YearlyRainfall, 0, historyYears),
	}

	for i := historyYears; i >= 1; i-- {
		pastDate := date.AddDate(0, 0, -i*365)
		rainfall, err := s.fetchDailyRain(ctx, lat, lon, pastDate)
		if err != nil {
			// Best effort: a failed year is dropped, not fatal.
			log.Warnw("Skipping historical year",
				"date", pastDate.Format(dateLayout),
				"error", err)
			continue
		}
		record.Years = append(record.Years, types.YearlyRainfall{
			Year:       pastDate.Year(),
			RainfallMM: rainfall,
		})
	}

	if raw, err := json.Marshal(record); err == nil {
		_ = s.cache.Set(ctx, key, raw, s.ttl)
	}

	return record, nil
}

func (s *HistoryService) fetchDailyRain(ctx context.Context, lat, lon float64, date time.Time) (float64, error) {
	day := date.Format(dateLayout)

	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%f", lat))
	params.Add("longitude", fmt.Sprintf("%f", lon))
	params.Add("start_date", day)
	params.Add("end_date", day)
	params.Add("daily", "precipitation_sum")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("archive", metrics.OutcomeError).Inc()
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("archive", metrics.OutcomeError).Inc()
		return 0, fmt.Errorf("archive API error: %s", resp.Status)
	}

	var payload struct {
		Daily struct {
			PrecipitationSum []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("archive", metrics.OutcomeError).Inc()
		return 0, fmt.Errorf("decode archive response: %w", err)
	}

	if len(payload.Daily.PrecipitationSum) == 0 {
		metrics.UpstreamRequests.WithLabelValues("archive", metrics.OutcomeError).Inc()
		return 0, fmt.Errorf("archive response missing precipitation_sum")
	}

	metrics.UpstreamRequests.WithLabelValues("archive", metrics.OutcomeSuccess).Inc()
	return payload.Daily.PrecipitationSum[0], nil
}
