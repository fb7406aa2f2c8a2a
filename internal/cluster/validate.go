package cluster

import (
	"fmt"
	"math"
)

// Cluster ids carry no inherent meaning across training runs, so the
// id→label mapping must be re-validated after every retrain instead of
// trusted as a literal. ValidateLabels asserts the orderings that make the
// shipped labels semantically coherent over the raw (unscaled) per-cluster
// feature means.

// Means computes the per-cluster mean of every raw feature column.
func Means(x [][]float64, assignments []int, k int) ([][]float64, error) {
	if len(x) != len(assignments) {
		return nil, fmt.Errorf("means: %d rows but %d assignments", len(x), len(assignments))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("means: empty matrix")
	}
	dims := len(x[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, row := range x {
		c := assignments[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("means: assignment %d out of range (k=%d)", c, k)
		}
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}
	return sums, nil
}

// ValidateLabels checks the labeled clusters against their raw feature
// means: the cluster labeled as the consistent style must have the highest
// mean consistency score, and the fast style the lowest mean tutorial
// duration. A violation means the mapping artifact no longer matches the
// trained centroids and must be re-verified by hand.
func ValidateLabels(names []string, means [][]float64, labels map[int]string) error {
	col := func(name string) int {
		for j, n := range names {
			if n == name {
				return j
			}
		}
		return -1
	}
	clusterFor := func(label string) int {
		for id, l := range labels {
			if l == label {
				return id
			}
		}
		return -1
	}

	consistencyCol := col("consistency_score")
	durationCol := col("avg_tutorial_duration")
	if consistencyCol < 0 || durationCol < 0 {
		return fmt.Errorf("validate labels: discriminating features missing from model feature list")
	}

	consistent := clusterFor("Consistent Learner")
	fast := clusterFor("Fast Learner")
	if consistent < 0 || fast < 0 || consistent >= len(means) || fast >= len(means) {
		return fmt.Errorf("validate labels: mapping does not cover the expected labels")
	}

	maxConsistency := math.Inf(-1)
	argMaxConsistency := -1
	minDuration := math.Inf(1)
	argMinDuration := -1
	for c := range means {
		if v := means[c][consistencyCol]; v > maxConsistency {
			maxConsistency = v
			argMaxConsistency = c
		}
		if v := means[c][durationCol]; v < minDuration {
			minDuration = v
			argMinDuration = c
		}
	}

	if argMaxConsistency != consistent {
		return fmt.Errorf(
			"validate labels: cluster %d has the highest mean consistency_score (%.4f) but is labeled %q; expected it to be \"Consistent Learner\"",
			argMaxConsistency, maxConsistency, labels[argMaxConsistency])
	}
	if argMinDuration != fast {
		return fmt.Errorf(
			"validate labels: cluster %d has the lowest mean avg_tutorial_duration (%.4f) but is labeled %q; expected it to be \"Fast Learner\"",
			argMinDuration, minDuration, labels[argMinDuration])
	}
	return nil
}
