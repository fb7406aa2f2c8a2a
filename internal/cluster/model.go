package cluster

import (
	"encoding/json"
	"fmt"
)

// Artifacts is the persisted model: the exact ordered feature list the
// scaler and centroids were fitted on, the scaling parameters, the centroid
// coordinates in scaled space, and the versioned cluster-id→label mapping
// that ships alongside them. Artifacts are immutable once loaded; inference
// only reads them.
type Artifacts struct {
	FeatureNames  []string       `json:"feature_names"`
	Scaler        Scaler         `json:"scaler"`
	Centroids     [][]float64    `json:"centroids"`
	K             int            `json:"k"`
	Seed          int64          `json:"seed"`
	Labels        map[int]string `json:"labels"`
	LabelsVersion int            `json:"labels_version"`
}

// Fit trains the scaler and the centroids on a feature matrix whose columns
// follow names. The caller attaches the label mapping before persisting.
func Fit(x [][]float64, names []string, cfg KMeansConfig) (*Artifacts, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("fit: empty training matrix")
	}
	if len(x[0]) != len(names) {
		return nil, fmt.Errorf("fit: matrix has %d columns, %d names", len(x[0]), len(names))
	}

	scaler, err := FitScaler(x)
	if err != nil {
		return nil, err
	}
	centroids, err := fitKMeans(scaler.TransformAll(x), cfg)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		FeatureNames: append([]string(nil), names...),
		Scaler:       *scaler,
		Centroids:    centroids,
		K:            cfg.K,
		Seed:         cfg.Seed,
	}, nil
}

// Assign scales a raw feature row (already ordered to FeatureNames) and
// returns the id of the nearest centroid. Pure: no artifact state changes.
func (a *Artifacts) Assign(row []float64) (int, error) {
	if len(row) != len(a.FeatureNames) {
		return 0, fmt.Errorf("assign: row has %d values, model expects %d", len(row), len(a.FeatureNames))
	}
	return nearest(a.Scaler.Transform(row), a.Centroids), nil
}

// AssignAll assigns every row of a matrix.
func (a *Artifacts) AssignAll(x [][]float64) ([]int, error) {
	out := make([]int, len(x))
	for i, row := range x {
		c, err := a.Assign(row)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Validate checks structural integrity of loaded artifacts before use.
func (a *Artifacts) Validate() error {
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifacts: no feature names")
	}
	if len(a.Scaler.Centers) != len(a.FeatureNames) || len(a.Scaler.Scales) != len(a.FeatureNames) {
		return fmt.Errorf("artifacts: scaler dimensions do not match feature list")
	}
	if len(a.Centroids) == 0 {
		return fmt.Errorf("artifacts: no centroids")
	}
	for i, c := range a.Centroids {
		if len(c) != len(a.FeatureNames) {
			return fmt.Errorf("artifacts: centroid %d has %d dims, want %d", i, len(c), len(a.FeatureNames))
		}
	}
	return nil
}

// Encode serializes the artifacts for persistence.
func (a *Artifacts) Encode() ([]byte, error) {
	return json.Marshal(a)
}

// DecodeArtifacts parses persisted artifacts and validates their shape.
func DecodeArtifacts(data []byte) (*Artifacts, error) {
	var a Artifacts
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifacts: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}
