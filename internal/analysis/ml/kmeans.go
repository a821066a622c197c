package ml

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

// DefaultMaxIterations caps Lloyd iterations
const DefaultMaxIterations = 100

// KMeansOptions tunes KMeans
type KMeansOptions struct {
	Seed          uint64 // seeds k-means++ initialisation; equal seeds give equal results
	MaxIterations int    // defaults to DefaultMaxIterations when < 1
}

// ClusterResult assigns each row to a cluster
type ClusterResult struct {
	Assignments []int  `json:"assignments" yaml:"assignments"` // cluster index per row
	Centroids   Matrix `json:"centroids" yaml:"centroids"`     // k x cols
	Iterations  int    `json:"iterations" yaml:"iterations"`
	Converged   bool   `json:"converged" yaml:"converged"`
}

// KMeans partitions the rows of m into k clusters using k-means++ seeding
// followed by Lloyd iterations, stopping when assignments no longer change
// or MaxIterations is reached.
//
// k must be between 1 and the number of distinct rows; asking for more
// clusters than distinct points is rejected rather than producing empty
// clusters. A cluster that loses all members mid-run keeps its previous
// centroid.
func KMeans(m Matrix, k int, opts KMeansOptions) (ClusterResult, error) {
	rows, cols, err := requireNonEmpty(m, 1, "kmeans")
	if err != nil {
		return ClusterResult{}, err
	}
	if k < 1 || k > rows {
		return ClusterResult{}, errors.InvalidParameter(componentName, "k", k,
			"k must be between 1 and the row count %d", rows)
	}
	if distinct := countDistinctRows(m); k > distinct {
		return ClusterResult{}, errors.InvalidParameter(componentName, "k", k,
			"k exceeds the %d distinct rows", distinct)
	}

	maxIter := opts.MaxIterations
	if maxIter < 1 {
		maxIter = DefaultMaxIterations
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	centroids := seedCentroids(m, k, rng)

	result := ClusterResult{Assignments: make([]int, rows)}
	for i := range result.Assignments {
		result.Assignments[i] = -1
	}

	for iter := 1; iter <= maxIter; iter++ {
		result.Iterations = iter
		if !assign(m, centroids, result.Assignments) {
			result.Converged = true
			break
		}
		updateCentroids(m, centroids, result.Assignments, cols)
	}

	result.Centroids = centroids

	getLog().Debug("kmeans complete",
		logger.Int("rows", rows),
		logger.Int("k", k),
		logger.Int("iterations", result.Iterations),
		logger.Bool("converged", result.Converged))

	return result, nil
}

// seedCentroids picks k initial centroids with k-means++: the first
// uniformly, each next with probability proportional to its squared distance
// from the nearest centroid already chosen.
func seedCentroids(m Matrix, k int, rng *rand.Rand) Matrix {
	centroids := make(Matrix, 0, k)
	centroids = append(centroids, slices.Clone(m[rng.IntN(len(m))]))

	weights := make([]float64, len(m))
	for len(centroids) < k {
		total := 0.0
		for i, row := range m {
			d := nearestDistance(row, centroids)
			weights[i] = d * d
			total += weights[i]
		}

		target := rng.Float64() * total
		chosen := -1
		for i, w := range weights {
			if w == 0 {
				continue
			}
			chosen = i
			target -= w
			if target < 0 {
				break
			}
		}
		// total > 0 is guaranteed while distinct rows remain
		centroids = append(centroids, slices.Clone(m[chosen]))
	}

	return centroids
}

// assign moves each row to its nearest centroid, ties to the lower index,
// and reports whether any assignment changed.
func assign(m Matrix, centroids Matrix, assignments []int) bool {
	changed := false
	for i, row := range m {
		best, bestDist := 0, floats.Distance(row, centroids[0], 2)
		for c := 1; c < len(centroids); c++ {
			if d := floats.Distance(row, centroids[c], 2); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

// updateCentroids moves each centroid to the mean of its members
func updateCentroids(m Matrix, centroids Matrix, assignments []int, cols int) {
	sums := make(Matrix, len(centroids))
	sizes := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, cols)
	}
	for i, row := range m {
		c := assignments[i]
		floats.Add(sums[c], row)
		sizes[c]++
	}
	for c := range centroids {
		if sizes[c] == 0 {
			continue
		}
		floats.Scale(1/float64(sizes[c]), sums[c])
		centroids[c] = sums[c]
	}
}

func nearestDistance(row []float64, centroids Matrix) float64 {
	best := floats.Distance(row, centroids[0], 2)
	for _, c := range centroids[1:] {
		best = min(best, floats.Distance(row, c, 2))
	}
	return best
}

func countDistinctRows(m Matrix) int {
	distinct := make([][]float64, 0, len(m))
	for _, row := range m {
		if !slices.ContainsFunc(distinct, func(d []float64) bool { return slices.Equal(d, row) }) {
			distinct = append(distinct, row)
		}
	}
	return len(distinct)
}
