package types

// ClassifierInput is the exact three-feature vector the pre-trained model was
// trained with, in its fixed column order.
type ClassifierInput struct {
	TemperatureMax float64
	TemperatureMin float64
	WindSpeedMax   float64
}

// Prediction is the classifier's output for one event day.
type Prediction struct {
	WillRain        bool    `json:"will_rain"`
	RainProbability float64 `json:"rain_probability"`
}

// RiskTier is one of the three mutually exclusive rain-risk categories.
type RiskTier string

const (
	RiskTierLow      RiskTier = "Low Risk"
	RiskTierModerate RiskTier = "Moderate Risk"
	RiskTierHigh     RiskTier = "High Risk"
)

// Suggestion is the human-readable recommendation derived from a prediction.
type Suggestion struct {
	RiskTier RiskTier `json:"risk_tier"`
	Message  string   `json:"message"`
}
