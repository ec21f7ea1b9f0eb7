package types

import (
	"time"
)

// HourlyForecast is one hour of the requested day's forecast.
type HourlyForecast struct {
	Timestamp                time.Time `json:"timestamp"`
	Temperature2m            float64   `json:"temperature_2m"`
	RelativeHumidity2m       float64   `json:"relative_humidity_2m"`
	PrecipitationProbability float64   `json:"precipitation_probability"`
}

// DailySummary holds the single-day aggregates the classifier is fed with.
type DailySummary struct {
	TemperatureMax float64 `json:"temperature_2m_max"`
	TemperatureMin float64 `json:"temperature_2m_min"`
	WindSpeedMax   float64 `json:"windspeed_10m_max"`
}

// ForecastResult is a single day's forecast for one location. Immutable once
// fetched. Daily is nil when the upstream response carried no daily block;
// dependent views must degrade rather than index into it.
type ForecastResult struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Date      string           `json:"date"`
	Hourly    []HourlyForecast `json:"hourly"`
	Daily     *DailySummary    `json:"daily,omitempty"`
}

// YearlyRainfall is the total recorded rainfall for the event's calendar day
// in one past year.
type YearlyRainfall struct {
	Year       int     `json:"year"`
	RainfallMM float64 `json:"rainfall_mm"`
}

// HistoryRecord is a best-effort sequence of 0 to 5 yearly rainfall totals,
// ordered oldest first. Failed years are simply absent.
type HistoryRecord struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Date      string           `json:"date"`
	Years     []YearlyRainfall `json:"years"`
}

// GeocodeResult is a resolved place for a free-text query.
type GeocodeResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
