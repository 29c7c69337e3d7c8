package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardScalerJSON = `{
  "kind": "standard_scaler",
  "features": ["temperature", "salinity", "oxygen"],
  "mean": [22.5, 31.0, 6.2],
  "scale": [3.1, 2.4, 1.3]
}`

const forestJSON = `{
  "kind": "isolation_forest",
  "features": ["temperature", "salinity", "oxygen"],
  "max_samples": 4,
  "offset": -0.5,
  "trees": [
    {"nodes": [
      {"left": 1, "right": 2, "feature": 0, "threshold": 0.0, "samples": 4},
      {"left": -1, "right": -1, "samples": 1},
      {"left": -1, "right": -1, "samples": 3}
    ]}
  ]
}`

func writeArtifact(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScaler(t *testing.T) {
	scaler, err := LoadScaler(writeArtifact(t, "scaler.json", standardScalerJSON))
	require.NoError(t, err)

	std, ok := scaler.(*StandardScaler)
	require.True(t, ok)
	assert.Equal(t, []float64{22.5, 31.0, 6.2}, std.Mean)
	assert.Equal(t, 3, scaler.NumFeatures())
}

func TestParseScalerErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"unknown kind", `{"kind": "robust_scaler", "scale": [1,1,1]}`, ErrUnknownArtifactKind},
		{"wrong feature order", `{"kind": "standard_scaler", "features": ["temperature", "oxygen", "salinity"], "mean": [0,0,0], "scale": [1,1,1]}`, ErrFeatureMismatch},
		{"too few features", `{"kind": "minmax_scaler", "min": [0,0], "scale": [1,1]}`, ErrInvalidArtifact},
		{"zero scale", `{"kind": "standard_scaler", "mean": [0,0,0], "scale": [1,0,1]}`, ErrInvalidArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScaler([]byte(tt.body))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ParseScaler([]byte("not json"))
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	model, err := LoadModel(writeArtifact(t, "model.json", forestJSON))
	require.NoError(t, err)

	forest, ok := model.(*IsolationForest)
	require.True(t, ok)
	assert.Equal(t, 4, forest.MaxSamples)
	assert.Len(t, forest.Trees, 1)
	assert.Equal(t, 3, model.NumFeatures())
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"unknown kind", `{"kind": "random_forest"}`, ErrUnknownArtifactKind},
		{"forest without trees", `{"kind": "isolation_forest", "max_samples": 8}`, ErrInvalidArtifact},
		{"child out of range", `{"kind": "isolation_forest", "max_samples": 2, "trees": [{"nodes": [{"left": 1, "right": 5, "feature": 0}]}]}`, ErrInvalidArtifact},
		{"split on missing feature", `{"kind": "isolation_forest", "max_samples": 2, "trees": [{"nodes": [{"left": 1, "right": 2, "feature": 3}, {"left": -1, "right": -1}, {"left": -1, "right": -1}]}]}`, ErrInvalidArtifact},
		{"svm coefficient count", `{"kind": "one_class_svm", "gamma": 1, "support_vectors": [[0,0,0]], "dual_coef": [1, 2]}`, ErrInvalidArtifact},
		{"svm vector width", `{"kind": "one_class_svm", "gamma": 1, "support_vectors": [[0,0]], "dual_coef": [1]}`, ErrInvalidArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.body))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadScaler(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
