package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Artifact kinds
const (
	KindStandardScaler  = "standard_scaler"
	KindMinMaxScaler    = "minmax_scaler"
	KindIsolationForest = "isolation_forest"
	KindOneClassSVM     = "one_class_svm"
)

var (
	// ErrUnknownArtifactKind is returned for artifacts of an unsupported kind
	ErrUnknownArtifactKind = errors.New("unknown artifact kind")
	// ErrInvalidArtifact is returned when an artifact is structurally inconsistent
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// scalerArtifact is the JSON form of a fitted scaler
type scalerArtifact struct {
	Kind     string    `json:"kind"`
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean,omitempty"`
	Min      []float64 `json:"min,omitempty"`
	Scale    []float64 `json:"scale"`
}

// modelArtifact is the JSON form of a fitted model
type modelArtifact struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`

	// isolation_forest
	MaxSamples int             `json:"max_samples,omitempty"`
	Offset     float64         `json:"offset,omitempty"`
	Trees      []IsolationTree `json:"trees,omitempty"`

	// one_class_svm
	Gamma          float64     `json:"gamma,omitempty"`
	SupportVectors [][]float64 `json:"support_vectors,omitempty"`
	DualCoef       []float64   `json:"dual_coef,omitempty"`
	Intercept      float64     `json:"intercept,omitempty"`
}

// LoadScaler reads a scaler artifact from path
func LoadScaler(path string) (Scaler, error) {
	zap.S().Infof("Loading feature scaler from %s", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler artifact: %w", err)
	}
	return ParseScaler(raw)
}

// ParseScaler decodes a scaler artifact
func ParseScaler(raw []byte) (Scaler, error) {
	var a scalerArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("failed to decode scaler artifact: %w", err)
	}
	if err := checkFeatureNames(a.Features); err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindStandardScaler:
		if len(a.Mean) != len(FeatureNames) || len(a.Scale) != len(FeatureNames) {
			return nil, fmt.Errorf("%w: standard scaler needs %d means and scales", ErrInvalidArtifact, len(FeatureNames))
		}
		for i, s := range a.Scale {
			if s == 0 {
				return nil, fmt.Errorf("%w: zero scale for feature %s", ErrInvalidArtifact, FeatureNames[i])
			}
		}
		return &StandardScaler{Mean: a.Mean, Scale: a.Scale}, nil
	case KindMinMaxScaler:
		if len(a.Min) != len(FeatureNames) || len(a.Scale) != len(FeatureNames) {
			return nil, fmt.Errorf("%w: min-max scaler needs %d mins and scales", ErrInvalidArtifact, len(FeatureNames))
		}
		return &MinMaxScaler{Min: a.Min, Scale: a.Scale}, nil
	default:
		return nil, fmt.Errorf("%w: scaler %q", ErrUnknownArtifactKind, a.Kind)
	}
}

// LoadModel reads a model artifact from path
func LoadModel(path string) (Model, error) {
	zap.S().Infof("Loading anomaly model from %s", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return ParseModel(raw)
}

// ParseModel decodes a model artifact
func ParseModel(raw []byte) (Model, error) {
	var a modelArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := checkFeatureNames(a.Features); err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindIsolationForest:
		if len(a.Trees) == 0 || a.MaxSamples < 1 {
			return nil, fmt.Errorf("%w: isolation forest needs trees and max_samples", ErrInvalidArtifact)
		}
		for i, tree := range a.Trees {
			if err := validateTree(tree, len(FeatureNames)); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
			}
		}
		return &IsolationForest{
			Features:   len(FeatureNames),
			MaxSamples: a.MaxSamples,
			Offset:     a.Offset,
			Trees:      a.Trees,
		}, nil
	case KindOneClassSVM:
		if len(a.SupportVectors) == 0 || len(a.SupportVectors) != len(a.DualCoef) {
			return nil, fmt.Errorf("%w: one-class SVM needs one dual coefficient per support vector", ErrInvalidArtifact)
		}
		for i, sv := range a.SupportVectors {
			if len(sv) != len(FeatureNames) {
				return nil, fmt.Errorf("%w: support vector %d has %d features", ErrInvalidArtifact, i, len(sv))
			}
		}
		return &OneClassSVM{
			Gamma:          a.Gamma,
			SupportVectors: a.SupportVectors,
			DualCoef:       a.DualCoef,
			Intercept:      a.Intercept,
		}, nil
	default:
		return nil, fmt.Errorf("%w: model %q", ErrUnknownArtifactKind, a.Kind)
	}
}

// checkFeatureNames rejects artifacts fitted on a different column order.
// Artifacts without feature names are trusted.
func checkFeatureNames(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != len(FeatureNames) {
		return fmt.Errorf("%w: fitted on %d features, expected %d", ErrFeatureMismatch, len(names), len(FeatureNames))
	}
	for i, n := range names {
		if n != FeatureNames[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrFeatureMismatch, i, n, FeatureNames[i])
		}
	}
	return nil
}

// validateTree makes sure every walk through the tree terminates inside Nodes
func validateTree(t IsolationTree, features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Left < 0 || n.Right < 0 {
			continue
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has out-of-order children %d/%d", i, n.Left, n.Right)
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d splits on feature %d", i, n.Feature)
		}
	}
	return nil
}
