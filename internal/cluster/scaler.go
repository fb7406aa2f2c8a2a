// Package cluster fits and applies the learning-style model: a robust
// per-feature scaling transform followed by k-means centroid assignment.
// Fitting happens offline in the train command; inference only ever reads
// the persisted artifacts.
package cluster

import (
	"fmt"
	"math"
	"sort"
)

// Scaler holds the fitted robust-scaling parameters: per-feature median
// (center) and interquartile range (scale).
type Scaler struct {
	Centers []float64 `json:"centers"`
	Scales  []float64 `json:"scales"`
}

// FitScaler computes per-feature medians and interquartile ranges over the
// training matrix. A zero IQR (constant feature) scales by 1 so the feature
// passes through centered but unstretched.
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("fit scaler: empty matrix")
	}
	dims := len(x[0])
	s := &Scaler{
		Centers: make([]float64, dims),
		Scales:  make([]float64, dims),
	}
	column := make([]float64, len(x))
	for j := 0; j < dims; j++ {
		for i := range x {
			column[i] = x[i][j]
		}
		sort.Float64s(column)
		s.Centers[j] = quantile(column, 0.5)
		iqr := quantile(column, 0.75) - quantile(column, 0.25)
		if iqr == 0 {
			iqr = 1
		}
		s.Scales[j] = iqr
	}
	return s, nil
}

// Transform scales a single row in place-order: (v − median) / IQR.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Centers[j]) / s.Scales[j]
	}
	return out
}

// TransformAll scales every row of a matrix.
func (s *Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
