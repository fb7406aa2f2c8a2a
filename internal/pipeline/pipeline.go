// Package pipeline wires the stages together: raw relations → feature
// matrix → cluster assignment → insight message. Training runs the same
// feature stages and fits the model instead of applying it.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learnpulse/internal/cluster"
	"github.com/abhisek/learnpulse/internal/dataset"
	"github.com/abhisek/learnpulse/internal/features"
	"github.com/abhisek/learnpulse/internal/insight"
)

// ErrInsufficientData mirrors the assembler's sentinel for an empty learner
// universe; callers map it to a "newcomer" result, never to an Unknown
// cluster.
var ErrInsufficientData = features.ErrInsufficientData

// ErrModelUnavailable is returned when inference is attempted without
// loadable model artifacts.
var ErrModelUnavailable = errors.New("model artifacts unavailable")

// Result is the externally visible output for one learner.
type Result struct {
	LearnerID int64           `json:"user_id"`
	Category  string          `json:"category"`
	Message   string          `json:"insight_message"`
	Metrics   features.Vector `json:"metrics"`
}

// Pipeline holds the immutable inference dependencies: the loaded model
// artifacts, the label mapping, and the message resolver. Safe for
// unlimited concurrent use; nothing here is mutated per request.
type Pipeline struct {
	artifacts *cluster.Artifacts
	mapping   insight.Mapping
	resolver  *insight.Resolver
}

// New builds a Pipeline around loaded artifacts. The mapping defaults to
// the artifact-embedded labels when present, else the shipped default.
func New(artifacts *cluster.Artifacts, resolver *insight.Resolver) (*Pipeline, error) {
	if artifacts == nil {
		return nil, ErrModelUnavailable
	}
	if err := artifacts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	mapping := insight.DefaultMapping()
	if len(artifacts.Labels) > 0 {
		mapping = insight.Mapping{Version: artifacts.LabelsVersion, Labels: artifacts.Labels}
	}
	if resolver == nil {
		resolver = insight.NewResolver(nil)
	}

	return &Pipeline{
		artifacts: artifacts,
		mapping:   mapping,
		resolver:  resolver,
	}, nil
}

// Predict computes the feature matrix for the dataset and assigns every
// learner in its universe a cluster, label and insight message. An empty
// universe returns ErrInsufficientData.
func (p *Pipeline) Predict(ctx context.Context, ds *dataset.Dataset) ([]Result, error) {
	matrix, err := features.Compute(ctx, ds)
	if err != nil {
		return nil, err
	}

	rows := matrix.Values(p.artifacts.FeatureNames)
	assignments, err := p.artifacts.AssignAll(rows)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(matrix.Learners))
	for i, id := range matrix.Learners {
		vec := matrix.Rows[i]
		label := p.mapping.Label(assignments[i])

		msg := p.resolver.Message(ctx, insight.Context{
			Label:              label,
			Rating:             vec.AvgSubmissionRating,
			AvgDurationMinutes: vec.AvgTutorialDuration,
			RevisitRate:        vec.TutorialRevisitRate,
			ActiveDays:         int(vec.ActiveDays),
			CompletedTutorials: int(vec.TotalCompletedTutorials),
		})

		results[i] = Result{
			LearnerID: id,
			Category:  label,
			Message:   msg,
			Metrics:   vec,
		}
	}
	return results, nil
}

// TrainConfig controls an offline fit.
type TrainConfig struct {
	K       int
	Seed    int64
	Mapping insight.Mapping
}

// TrainReport summarizes a fit for operator review.
type TrainReport struct {
	Learners     int
	FeatureNames []string
	ClusterSizes []int
	ClusterMeans [][]float64
	LabelError   error
}

// Train computes the feature matrix, fits the scaler and centroids, embeds
// the label mapping, and validates it against the per-cluster raw feature
// means. The artifacts are returned even when label validation fails; the
// report carries the violation so the operator can re-verify the mapping.
func Train(ctx context.Context, ds *dataset.Dataset, cfg TrainConfig) (*cluster.Artifacts, *TrainReport, error) {
	matrix, err := features.Compute(ctx, ds)
	if err != nil {
		return nil, nil, err
	}

	x := matrix.Values(features.ModelFeatures)
	artifacts, err := cluster.Fit(x, features.ModelFeatures, cluster.KMeansConfig{
		K:    cfg.K,
		Seed: cfg.Seed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fit model: %w", err)
	}

	mapping := cfg.Mapping
	if len(mapping.Labels) == 0 {
		mapping = insight.DefaultMapping()
	}
	artifacts.Labels = mapping.Labels
	artifacts.LabelsVersion = mapping.Version

	assignments, err := artifacts.AssignAll(x)
	if err != nil {
		return nil, nil, err
	}
	means, err := cluster.Means(x, assignments, cfg.K)
	if err != nil {
		return nil, nil, err
	}

	sizes := make([]int, cfg.K)
	for _, c := range assignments {
		sizes[c]++
	}

	report := &TrainReport{
		Learners:     len(matrix.Learners),
		FeatureNames: artifacts.FeatureNames,
		ClusterSizes: sizes,
		ClusterMeans: means,
		LabelError:   cluster.ValidateLabels(artifacts.FeatureNames, means, mapping.Labels),
	}
	return artifacts, report, nil
}
