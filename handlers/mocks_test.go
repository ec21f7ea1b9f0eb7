package handlers

import (
	"context"
	"time"

	"github.com/RainParade/rain-parade-backend/services"
	"github.com/RainParade/rain-parade-backend/store"
	"github.com/RainParade/rain-parade-backend/types"
	"github.com/stretchr/testify/mock"
)

// MockEventStore implements store.EventStore for handler tests.
type MockEventStore struct {
	mock.Mock
}

var _ store.EventStore = (*MockEventStore)(nil)

func (m *MockEventStore) CreateEvent(ctx context.Context, event *types.EventConfig) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func (m *MockEventStore) GetEvent(ctx context.Context, id string) (*types.EventConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.EventConfig), args.Error(1)
}

func (m *MockEventStore) ListEvents(ctx context.Context) ([]types.EventConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.EventConfig), args.Error(1)
}

func (m *MockEventStore) UpdateEvent(ctx context.Context, event *types.EventConfig) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGeocodeService implements services.GeocodeServiceInterface.
type MockGeocodeService struct {
	mock.Mock
}

var _ services.GeocodeServiceInterface = (*MockGeocodeService)(nil)

func (m *MockGeocodeService) Geocode(ctx context.Context, query string) (*types.GeocodeResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeocodeResult), args.Error(1)
}

// MockForecastService implements services.ForecastServiceInterface.
type MockForecastService struct {
	mock.Mock
}

var _ services.ForecastServiceInterface = (*MockForecastService)(nil)

func (m *MockForecastService) FetchForecast(ctx context.Context, lat, lon float64, date time.Time) (*types.ForecastResult, error) {
	args := m.Called(ctx, lat, lon, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ForecastResult), args.Error(1)
}

// MockHistoryService implements services.HistoryServiceInterface.
type MockHistoryService struct {
	mock.Mock
}

var _ services.HistoryServiceInterface = (*MockHistoryService)(nil)

func (m *MockHistoryService) FetchHistory(ctx context.Context, lat, lon float64, date time.Time) (*types.HistoryRecord, error) {
	args := m.Called(ctx, lat, lon, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.HistoryRecord), args.Error(1)
}

// MockPredictionService implements services.PredictionServiceInterface.
type MockPredictionService struct {
	mock.Mock
}

var _ services.PredictionServiceInterface = (*MockPredictionService)(nil)

func (m *MockPredictionService) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPredictionService) Predict(daily *types.DailySummary) (*types.Prediction, error) {
	args := m.Called(daily)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Prediction), args.Error(1)
}
