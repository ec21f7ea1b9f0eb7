package services

import (
	"fmt"

	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/metrics"
	"github.com/RainParade/rain-parade-backend/pkg/classifier"
	"github.com/RainParade/rain-parade-backend/types"
)

// highRiskThreshold separates moderate from high rain risk.
const highRiskThreshold = 0.6

// PredictionServiceInterface wraps the pre-trained rain classifier.
type PredictionServiceInterface interface {
	Available() bool
	Predict(daily *types.DailySummary) (*types.Prediction, error)
}

// PredictionService wraps the loaded classifier. When the artifact failed to
// load the service stays constructible with a nil model and every consumer
// degrades to an unavailable state instead of crashing.
type PredictionService struct {
	model *classifier.Classifier
}

var _ PredictionServiceInterface = (*PredictionService)(nil)

func NewPredictionService(model *classifier.Classifier) *PredictionService {
	return &PredictionService{model: model}
}

// Available reports whether the classifier artifact was loaded.
func (s *PredictionService) Available() bool {
	return s.model != nil
}

// Predict runs the classifier over the day's aggregates. It fails when the
// model is unavailable or when the forecast carried no daily record, in
// which case no prediction is computed downstream.
func (s *PredictionService) Predict(daily *types.DailySummary) (*types.Prediction, error) {
	if s.model == nil {
		return nil, apperrors.New(apperrors.ArtifactLoadError, "Rain classifier is unavailable", "")
	}
	if daily == nil {
		return nil, apperrors.MalformedResponse("forecast API", "no daily record for the requested date")
	}

	input := types.ClassifierInput{
		TemperatureMax: daily.TemperatureMax,
		TemperatureMin: daily.TemperatureMin,
		WindSpeedMax:   daily.WindSpeedMax,
	}

	prediction := &types.Prediction{
		WillRain:        s.model.Predict(input),
		RainProbability: s.model.PredictProba(input),
	}

	metrics.Predictions.WithLabelValues(string(SuggestionFor(*prediction).RiskTier)).Inc()
	return prediction, nil
}

// SuggestionFor maps a prediction to its risk tier and message. Pure and
// total: every (will_rain, probability) pair lands in exactly one tier.
func SuggestionFor(p types.Prediction) types.Suggestion {
	confidence := p.RainProbability * 100

	switch {
	case p.WillRain && p.RainProbability > highRiskThreshold:
		return types.Suggestion{
			RiskTier: types.RiskTierHigh,
			Message: fmt.Sprintf("The model predicts rain with %.0f%% confidence. Activating an indoor backup plan is strongly recommended.",
				confidence),
		}
	case p.WillRain:
		return types.Suggestion{
			RiskTier: types.RiskTierModerate,
			Message: fmt.Sprintf("The model predicts rain with %.0f%% confidence. Having tents or covered areas on standby is a wise precaution.",
				confidence),
		}
	default:
		return types.Suggestion{
			RiskTier: types.RiskTierLow,
			Message: fmt.Sprintf("The model is %.0f%% confident it will not rain. Conditions look favorable.",
				100-confidence),
		}
	}
}
