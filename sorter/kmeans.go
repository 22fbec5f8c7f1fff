package sorter

import "math"

// kmeans2 runs one-dimensional k-means with k=2 over values.
//
// Initialization is deterministic: the two centers start at the minimum
// and maximum of the input, so repeated runs over the same values always
// converge to the same clustering. Returns ok=false when the input cannot
// be separated (fewer than two values, or all values identical).
func kmeans2(values []float64, maxIterations int) (centers [2]float64, counts [2]int, assignments []int, ok bool) {
	if len(values) < 2 {
		return centers, counts, nil, false
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return centers, counts, nil, false
	}

	centers[0], centers[1] = lo, hi
	assignments = make([]int, len(values))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		// Assignment step: ties go to the lower cluster.
		for i, v := range values {
			cluster := 0
			if math.Abs(v-centers[1]) < math.Abs(v-centers[0]) {
				cluster = 1
			}
			if assignments[i] != cluster {
				assignments[i] = cluster
				changed = true
			}
		}

		// Update step.
		var sums [2]float64
		counts = [2]int{}
		for i, v := range values {
			sums[assignments[i]] += v
			counts[assignments[i]]++
		}
		for c := 0; c < 2; c++ {
			if counts[c] > 0 {
				centers[c] = sums[c] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// A cluster can empty out when the data is heavily skewed; that is a
	// degenerate clustering, not a two-column signal.
	if counts[0] == 0 || counts[1] == 0 {
		return centers, counts, assignments, false
	}

	if centers[0] > centers[1] {
		centers[0], centers[1] = centers[1], centers[0]
		counts[0], counts[1] = counts[1], counts[0]
		for i := range assignments {
			assignments[i] = 1 - assignments[i]
		}
	}

	return centers, counts, assignments, true
}
