package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	defaultRestarts = 10
	maxIterations   = 300
	convergenceTol  = 1e-6
)

// KMeansConfig controls the offline fit. The seed makes the multi-restart
// initialization reproducible run to run.
type KMeansConfig struct {
	K        int
	Seed     int64
	Restarts int
}

// fitKMeans runs k-means with k-means++ seeding and Lloyd iterations,
// keeping the best of Restarts runs by inertia.
func fitKMeans(x [][]float64, cfg KMeansConfig) ([][]float64, error) {
	if cfg.K <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", cfg.K)
	}
	if len(x) < cfg.K {
		return nil, fmt.Errorf("kmeans: %d samples cannot form %d clusters", len(x), cfg.K)
	}
	restarts := cfg.Restarts
	if restarts <= 0 {
		restarts = defaultRestarts
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var best [][]float64
	bestInertia := math.Inf(1)
	for r := 0; r < restarts; r++ {
		centroids := seedCentroids(x, cfg.K, rng)
		centroids, inertia := lloyd(x, centroids)
		if inertia < bestInertia {
			bestInertia = inertia
			best = centroids
		}
	}
	return best, nil
}

// seedCentroids implements k-means++: the first centroid is uniform, each
// subsequent one is drawn proportionally to squared distance from the
// nearest centroid chosen so far.
func seedCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(x[rng.Intn(len(x))]))

	dist := make([]float64, len(x))
	for len(centroids) < k {
		total := 0.0
		for i, row := range x {
			dist[i] = nearestDistSq(row, centroids)
			total += dist[i]
		}
		if total == 0 {
			// All points coincide with a centroid; any pick works.
			centroids = append(centroids, cloneRow(x[rng.Intn(len(x))]))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		pick := len(x) - 1
		for i := range x {
			acc += dist[i]
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, cloneRow(x[pick]))
	}
	return centroids
}

// lloyd iterates assignment and centroid recomputation until centroids stop
// moving (or maxIterations). Returns the final centroids and inertia.
func lloyd(x [][]float64, centroids [][]float64) ([][]float64, float64) {
	k := len(centroids)
	dims := len(x[0])
	assign := make([]int, len(x))

	for iter := 0; iter < maxIterations; iter++ {
		for i, row := range x {
			assign[i] = nearest(row, centroids)
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, row := range x {
			c := assign[i]
			counts[c]++
			for j, v := range row {
				next[c][j] += v
			}
		}

		moved := 0.0
		for c := range next {
			if counts[c] == 0 {
				// Re-seed an empty cluster on the point farthest from
				// its centroid.
				next[c] = cloneRow(x[farthestPoint(x, centroids)])
			} else {
				for j := range next[c] {
					next[c][j] /= float64(counts[c])
				}
			}
			moved += distSq(next[c], centroids[c])
		}
		centroids = next
		if moved < convergenceTol {
			break
		}
	}

	inertia := 0.0
	for _, row := range x {
		inertia += nearestDistSq(row, centroids)
	}
	return centroids, inertia
}

// nearest returns the index of the closest centroid, ties going to the
// lowest index so assignment is deterministic.
func nearest(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := distSq(row, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := distSq(row, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func nearestDistSq(row []float64, centroids [][]float64) float64 {
	bestDist := distSq(row, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := distSq(row, centroids[c]); d < bestDist {
			bestDist = d
		}
	}
	return bestDist
}

func farthestPoint(x [][]float64, centroids [][]float64) int {
	best := 0
	bestDist := -1.0
	for i, row := range x {
		if d := nearestDistSq(row, centroids); d > bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func distSq(a, b []float64) float64 {
	sum := 0.0
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
