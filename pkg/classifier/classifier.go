// Package classifier consumes the pre-trained daily rain model. The model is
// an externally produced artifact: a JSON file carrying the logistic weights
// exported from the training pipeline. This package only implements the
// calling contract (predict and predict-proba over the fixed three-feature
// schema); it never trains or adjusts the model.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/RainParade/rain-parade-backend/types"
)

// expectedFeatures is the column order the artifact was trained with.
// An artifact declaring anything else is rejected at load time.
var expectedFeatures = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"windspeed_10m_max",
}

// artifact is the on-disk shape of the exported model.
type artifact struct {
	ModelVersion string    `json:"model_version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

// Classifier is the loaded rain model. Immutable after Load; safe for
// concurrent use.
type Classifier struct {
	version      string
	coefficients [3]float64
	intercept    float64
	threshold    float64
}

// Load reads and validates the model artifact at path. It is called once per
// process lifetime; on failure the caller logs the error and runs without
// predictions rather than crashing.
func Load(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if len(a.Features) != len(expectedFeatures) {
		return nil, fmt.Errorf("artifact declares %d features, want %d", len(a.Features), len(expectedFeatures))
	}
	for i, name := range expectedFeatures {
		if a.Features[i] != name {
			return nil, fmt.Errorf("artifact feature %d is %q, want %q", i, a.Features[i], name)
		}
	}
	if len(a.Coefficients) != len(expectedFeatures) {
		return nil, fmt.Errorf("artifact has %d coefficients, want %d", len(a.Coefficients), len(expectedFeatures))
	}

	threshold := a.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}

	c := &Classifier{
		version:   a.ModelVersion,
		intercept: a.Intercept,
		threshold: threshold,
	}
	copy(c.coefficients[:], a.Coefficients)

	logger.GetLogger().Infow("Rain classifier loaded",
		"path", path,
		"model_version", c.version,
		"threshold", c.threshold)

	return c, nil
}

// Version returns the artifact's declared model version.
func (c *Classifier) Version() string {
	return c.version
}

// PredictProba returns the probability of rain (class 1) for the given
// feature vector, in [0, 1].
func (c *Classifier) PredictProba(in types.ClassifierInput) float64 {
	z := c.intercept +
		c.coefficients[0]*in.TemperatureMax +
		c.coefficients[1]*in.TemperatureMin +
		c.coefficients[2]*in.WindSpeedMax
	return 1.0 / (1.0 + math.Exp(-z))
}

// Predict returns the binary class: true when the rain probability meets the
// artifact's decision threshold.
func (c *Classifier) Predict(in types.ClassifierInput) bool {
	return c.PredictProba(in) >= c.threshold
}
