// Package metrics exposes Prometheus instrumentation for the upstream
// weather calls and the memoization layer in front of them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts calls to external providers by provider name
	// and outcome (success, error).
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainparade_upstream_requests_total",
		Help: "Number of requests issued to external weather and geocoding providers.",
	}, []string{"provider", "outcome"})

	// CacheLookups counts cache reads by cache name and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainparade_cache_lookups_total",
		Help: "Number of memoization cache lookups.",
	}, []string{"cache", "result"})

	// Predictions counts classifier predictions by resulting risk tier.
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainparade_predictions_total",
		Help: "Number of rain predictions served, by risk tier.",
	}, []string{"risk_tier"})
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	ResultHit  = "hit"
	ResultMiss = "miss"
)
