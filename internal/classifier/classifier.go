package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// expectedFeatures is the feature vector contract with the trained artifact.
// Order matters: the coefficients are positional, and a reordering would
// silently corrupt every prediction. Load rejects artifacts that disagree.
var expectedFeatures = []string{"glucose", "bmi", "age", "pedigree"}

// artifact is the on-disk representation of the trained model: a logistic
// regression exported from the training pipeline as versioned JSON.
type artifact struct {
	Version      string    `json:"version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

// Classifier evaluates the pre-trained diabetes-risk model. It is immutable
// after Load and safe for unsynchronized concurrent use.
type Classifier struct {
	version      string
	coefficients [4]float64
	intercept    float64
	threshold    float64
}

// Load reads and validates a model artifact. Called once at process start;
// the caller decides what to do on failure (the server keeps running with the
// model marked unavailable).
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	if len(a.Features) != len(expectedFeatures) {
		return nil, fmt.Errorf("model artifact has %d features, want %d", len(a.Features), len(expectedFeatures))
	}
	for i, f := range a.Features {
		if f != expectedFeatures[i] {
			return nil, fmt.Errorf("model artifact feature %d is %q, want %q", i, f, expectedFeatures[i])
		}
	}
	if len(a.Coefficients) != len(expectedFeatures) {
		return nil, fmt.Errorf("model artifact has %d coefficients, want %d", len(a.Coefficients), len(expectedFeatures))
	}
	if a.Threshold <= 0 || a.Threshold >= 1 {
		return nil, fmt.Errorf("model artifact threshold %v out of (0,1)", a.Threshold)
	}

	c := &Classifier{
		version:   a.Version,
		intercept: a.Intercept,
		threshold: a.Threshold,
	}
	copy(c.coefficients[:], a.Coefficients)
	return c, nil
}

// Predict classifies one feature vector. Returns 1 for diabetic risk,
// 0 otherwise. Pure: no side effects, no shared state.
func (c *Classifier) Predict(glucose, bmi, age, pedigree float64) int {
	x := [4]float64{glucose, bmi, age, pedigree}
	z := c.intercept
	for i, w := range c.coefficients {
		z += w * x[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if p >= c.threshold {
		return 1
	}
	return 0
}

// Version returns the artifact version, recorded on every audit log row.
func (c *Classifier) Version() string { return c.version }

// Available reports whether the classifier was loaded. A nil receiver is the
// process-wide "model unavailable" state set when Load fails at startup.
func (c *Classifier) Available() bool { return c != nil }
