package cluster

import (
	"math"
	"testing"
)

const epsilon = 0.0001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestFitScaler_MedianAndIQR(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	s, err := FitScaler(x)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}
	if !almostEqual(s.Centers[0], 3) {
		t.Errorf("center = %v, want 3", s.Centers[0])
	}
	// q75 = 4, q25 = 2 with linear interpolation on 5 points.
	if !almostEqual(s.Scales[0], 2) {
		t.Errorf("scale = %v, want 2", s.Scales[0])
	}
}

func TestFitScaler_InterpolatedQuantiles(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	s, err := FitScaler(x)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}
	// median between 2 and 3; q25 = 1.75, q75 = 3.25.
	if !almostEqual(s.Centers[0], 2.5) {
		t.Errorf("center = %v, want 2.5", s.Centers[0])
	}
	if !almostEqual(s.Scales[0], 1.5) {
		t.Errorf("scale = %v, want 1.5", s.Scales[0])
	}
}

func TestFitScaler_ConstantColumn(t *testing.T) {
	x := [][]float64{{7, 1}, {7, 2}, {7, 3}}
	s, err := FitScaler(x)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}
	if !almostEqual(s.Scales[0], 1) {
		t.Errorf("constant column scale = %v, want 1", s.Scales[0])
	}
	got := s.Transform([]float64{7, 2})
	if !almostEqual(got[0], 0) || !almostEqual(got[1], 0) {
		t.Errorf("transform of the median row = %v, want zeros", got)
	}
}

func TestFitScaler_Empty(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Error("FitScaler accepted an empty matrix")
	}
}

func TestTransform_Centering(t *testing.T) {
	s := &Scaler{Centers: []float64{10}, Scales: []float64{2}}
	got := s.Transform([]float64{14})
	if !almostEqual(got[0], 2) {
		t.Errorf("transform = %v, want 2", got[0])
	}
}
