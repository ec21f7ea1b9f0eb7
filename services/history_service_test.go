package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RainParade/rain-parade-backend/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_FetchHistory(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		assert.Equal(t, "precipitation_sum", r.URL.Query().Get("daily"))
		assert.Equal(t, r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
		_, _ = fmt.Fprintf(w, `{"daily": {"precipitation_sum": [%d.5]}}`, atomic.LoadInt64(&hits))
	}))
	defer server.Close()

	svc := NewHistoryService(weatherTestConfig("", server.URL), cache.NewMemoryCache())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	record, err := svc.FetchHistory(context.Background(), 28.40, 77.31, date)
	require.NoError(t, err)

	require.Len(t, record.Years, 5)
	assert.Equal(t, int64(5), atomic.LoadInt64(&hits))

	// Years follow the fixed 365-day offsets, oldest first.
	for idx, entry := range record.Years {
		i := 5 - idx
		expected := date.AddDate(0, 0, -i*365).Year()
		assert.Equal(t, expected, entry.Year)
	}
	assert.True(t, record.Years[0].Year < record.Years[4].Year)
}

func TestHistoryService_PartialFailure(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		// Fail the second year only.
		if n == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"daily": {"precipitation_sum": [3.2]}}`))
	}))
	defer server.Close()

	svc := NewHistoryService(weatherTestConfig("", server.URL), cache.NewMemoryCache())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	record, err := svc.FetchHistory(context.Background(), 28.40, 77.31, date)
	require.NoError(t, err, "a failed year is skipped, never fatal")
	assert.Len(t, record.Years, 4)
}

func TestHistoryService_AllYearsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewHistoryService(weatherTestConfig("", server.URL), cache.NewMemoryCache())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	record, err := svc.FetchHistory(context.Background(), 28.40, 77.31, date)
	require.NoError(t, err)
	assert.Empty(t, record.Years)
}

func TestHistoryService_MemoizedWithinTTL(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		_, _ = w.Write([]byte(`{"daily": {"precipitation_sum": [3.2]}}`))
	}))
	defer server.Close()

	svc := NewHistoryService(weatherTestConfig("", server.URL), cache.NewMemoryCache())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := svc.FetchHistory(ctx, 28.40, 77.31, date)
	require.NoError(t, err)
	second, err := svc.FetchHistory(ctx, 28.40, 77.31, date)
	require.NoError(t, err)

	assert.Equal(t, int64(5), atomic.LoadInt64(&hits), "cached record must not refetch any year")
	assert.Equal(t, first, second)
}

func TestHistoryService_MissingPrecipitationSum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {}}`))
	}))
	defer server.Close()

	svc := NewHistoryService(weatherTestConfig("", server.URL), cache.NewMemoryCache())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	record, err := svc.FetchHistory(context.Background(), 28.40, 77.31, date)
	require.NoError(t, err)
	assert.Empty(t, record.Years)
}
