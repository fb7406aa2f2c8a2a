package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/learnpulse/internal/cluster"
	"github.com/abhisek/learnpulse/internal/dataset"
	"github.com/abhisek/learnpulse/internal/features"
	"github.com/abhisek/learnpulse/internal/insight"
)

// identityArtifacts builds a model whose scaler passes values through and
// whose two centroids split learners into "no activity" and "busy".
func identityArtifacts() *cluster.Artifacts {
	n := len(features.ModelFeatures)
	centers := make([]float64, n)
	scales := make([]float64, n)
	quiet := make([]float64, n)
	busy := make([]float64, n)
	for j := 0; j < n; j++ {
		scales[j] = 1
	}
	// The second centroid is far out along the exam-score axis only.
	busy[0] = 100
	return &cluster.Artifacts{
		FeatureNames:  features.ModelFeatures,
		Scaler:        cluster.Scaler{Centers: centers, Scales: scales},
		Centroids:     [][]float64{quiet, busy},
		K:             2,
		Seed:          42,
		Labels:        map[int]string{0: insight.LabelFast, 1: insight.LabelConsistent},
		LabelsVersion: 1,
	}
}

func ts(year, month, day, hour int) dataset.Time {
	return dataset.NewTime(time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC))
}

func TestNew_RejectsNilAndBrokenArtifacts(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("New(nil) = %v, want ErrModelUnavailable", err)
	}

	broken := identityArtifacts()
	broken.Centroids = nil
	if _, err := New(broken, nil); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("New(broken) = %v, want ErrModelUnavailable", err)
	}
}

func TestPredict_EmptyUniverse(t *testing.T) {
	p, err := New(identityArtifacts(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Predict(context.Background(), &dataset.Dataset{})
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Predict on empty dataset = %v, want ErrInsufficientData", err)
	}
}

func TestPredict_AssignsLabelsAndMessages(t *testing.T) {
	p, err := New(identityArtifacts(), insight.NewResolver(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ds := &dataset.Dataset{
		Users: []dataset.User{{ID: 1}},
		Trackings: dataset.Trackings{Rows: []dataset.Tracking{
			{DeveloperID: 1, TutorialID: 1, FirstOpenedAt: ts(2024, 3, 1, 10), CompletedAt: dataset.NewTime(time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC))},
		}},
	}
	results, err := p.Predict(context.Background(), ds)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.LearnerID != 1 {
		t.Errorf("learner id = %d, want 1", r.LearnerID)
	}
	// A lightly active learner sits near the origin centroid.
	if r.Category != insight.LabelFast {
		t.Errorf("category = %q, want %q", r.Category, insight.LabelFast)
	}
	if strings.TrimSpace(r.Message) == "" {
		t.Error("insight message is empty")
	}
	if r.Metrics.TotalCompletedTutorials != 1 {
		t.Errorf("metrics completed = %v, want 1", r.Metrics.TotalCompletedTutorials)
	}
}

func TestPredict_UnmappedClusterIsUnknown(t *testing.T) {
	a := identityArtifacts()
	a.Labels = map[int]string{0: insight.LabelFast} // cluster 1 unmapped
	p, err := New(a, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A learner far from the origin lands in the unmapped cluster.
	ds := &dataset.Dataset{
		Users: []dataset.User{{ID: 1}},
		ExamRegistrations: []dataset.ExamRegistration{
			{ID: 1, ExamineesID: 1},
		},
		ExamResults: []dataset.ExamResult{
			{ExamRegistrationID: 1, Score: 95, TotalQuestions: 50},
		},
	}
	results, err := p.Predict(context.Background(), ds)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if results[0].Category != insight.LabelUnknown {
		t.Errorf("category = %q, want %q", results[0].Category, insight.LabelUnknown)
	}
}

func TestTrain_FitsAndReports(t *testing.T) {
	// Two behavioral extremes so k=2 has something to separate.
	rows := []dataset.Tracking{}
	users := []dataset.User{}
	for id := int64(1); id <= 3; id++ {
		users = append(users, dataset.User{ID: id})
		for d := 1; d <= 5; d++ {
			rows = append(rows, dataset.Tracking{
				DeveloperID:   id,
				TutorialID:    int64(d),
				FirstOpenedAt: ts(2024, 3, d, 10),
				CompletedAt:   dataset.NewTime(time.Date(2024, 3, d, 10, 5, 0, 0, time.UTC)),
				LastViewed:    ts(2024, 3, d, 11),
			})
		}
	}
	for id := int64(4); id <= 6; id++ {
		users = append(users, dataset.User{ID: id})
		rows = append(rows, dataset.Tracking{
			DeveloperID:   id,
			TutorialID:    1,
			FirstOpenedAt: ts(2024, 3, 1, 10),
			CompletedAt:   dataset.NewTime(time.Date(2024, 3, 1, 10, 28, 0, 0, time.UTC)),
		})
	}
	ds := &dataset.Dataset{Users: users, Trackings: dataset.Trackings{Rows: rows}}

	artifacts, report, err := Train(context.Background(), ds, TrainConfig{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if artifacts.K != 2 || artifacts.Seed != 42 {
		t.Errorf("artifacts k=%d seed=%d", artifacts.K, artifacts.Seed)
	}
	if len(artifacts.FeatureNames) != len(features.ModelFeatures) {
		t.Errorf("feature names = %v", artifacts.FeatureNames)
	}
	if len(artifacts.Labels) == 0 {
		t.Error("train did not embed a label mapping")
	}

	if report.Learners != 6 {
		t.Errorf("report learners = %d, want 6", report.Learners)
	}
	total := 0
	for _, n := range report.ClusterSizes {
		total += n
	}
	if total != 6 {
		t.Errorf("cluster sizes %v sum to %d, want 6", report.ClusterSizes, total)
	}
	if len(report.ClusterMeans) != 2 || len(report.ClusterMeans[0]) != len(features.ModelFeatures) {
		t.Errorf("cluster means have the wrong shape: %v", report.ClusterMeans)
	}
}

func TestTrain_Deterministic(t *testing.T) {
	ds := &dataset.Dataset{
		Users: []dataset.User{{ID: 1}, {ID: 2}, {ID: 3}},
		Trackings: dataset.Trackings{Rows: []dataset.Tracking{
			{DeveloperID: 1, TutorialID: 1, FirstOpenedAt: ts(2024, 3, 1, 10), CompletedAt: dataset.NewTime(time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC))},
			{DeveloperID: 2, TutorialID: 1, FirstOpenedAt: ts(2024, 3, 2, 10), CompletedAt: dataset.NewTime(time.Date(2024, 3, 2, 10, 25, 0, 0, time.UTC))},
		}},
	}
	a, _, err := Train(context.Background(), ds, TrainConfig{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	b, _, err := Train(context.Background(), ds, TrainConfig{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	for c := range a.Centroids {
		for j := range a.Centroids[c] {
			if a.Centroids[c][j] != b.Centroids[c][j] {
				t.Fatalf("same seed produced different centroids: %v vs %v", a.Centroids, b.Centroids)
			}
		}
	}
}
