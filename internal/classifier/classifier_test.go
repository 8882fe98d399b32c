package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validArtifact = `{
	"version": "test-lr-1",
	"features": ["glucose", "bmi", "age", "pedigree"],
	"coefficients": [0.0352, 0.0894, 0.0147, 0.9451],
	"intercept": -8.1243,
	"threshold": 0.5
}`

func TestLoadValidArtifact(t *testing.T) {
	c, err := Load(writeArtifact(t, validArtifact))
	assert.NoError(t, err)
	assert.True(t, c.Available())
	assert.Equal(t, "test-lr-1", c.Version())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: `�binary�`,
		},
		{
			name: "reordered features",
			content: `{
				"version": "v",
				"features": ["age", "bmi", "glucose", "pedigree"],
				"coefficients": [1, 2, 3, 4],
				"intercept": 0,
				"threshold": 0.5
			}`,
		},
		{
			name: "missing feature",
			content: `{
				"version": "v",
				"features": ["glucose", "bmi", "age"],
				"coefficients": [1, 2, 3],
				"intercept": 0,
				"threshold": 0.5
			}`,
		},
		{
			name: "coefficient count mismatch",
			content: `{
				"version": "v",
				"features": ["glucose", "bmi", "age", "pedigree"],
				"coefficients": [1, 2],
				"intercept": 0,
				"threshold": 0.5
			}`,
		},
		{
			name: "threshold out of range",
			content: `{
				"version": "v",
				"features": ["glucose", "bmi", "age", "pedigree"],
				"coefficients": [1, 2, 3, 4],
				"intercept": 0,
				"threshold": 1.5
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeArtifact(t, tt.content))
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestPredict(t *testing.T) {
	c, err := Load(writeArtifact(t, validArtifact))
	assert.NoError(t, err)

	// High-risk vector from the clinical scenario.
	assert.Equal(t, 1, c.Predict(180, 32.0, 45, 0.6))
	// Low-risk vector well under the decision boundary.
	assert.Equal(t, 0, c.Predict(85, 21.0, 25, 0.1))
}

func TestNilClassifierUnavailable(t *testing.T) {
	var c *Classifier
	assert.False(t, c.Available())
}
