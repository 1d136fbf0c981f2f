package badgesplit

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ============ COLUMN PROFILE ============

// SmoothProfile applies a moving average over sums. The window for index i
// is [i-radius, i+radius) clamped to the slice, so it is one column shorter
// on the right than on the left.
func SmoothProfile(sums []float64, radius int) []float64 {
	n := len(sums)
	smoothed := make([]float64, n)
	if n == 0 {
		return smoothed
	}
	cum := floats.CumSum(make([]float64, n), sums)
	for i := 0; i < n; i++ {
		start := max(0, i-radius)
		end := min(n, i+radius)
		total := cum[end-1]
		if start > 0 {
			total -= cum[start-1]
		}
		smoothed[i] = total / float64(end-start)
	}
	return smoothed
}

// ============ SPLIT SEARCH ============

// LocateSplits finds the darkest column near 1/3 and near 2/3 of the profile
// width, searching [c-radius, c+radius) around each centre. Ties resolve to
// the leftmost column.
func LocateSplits(smoothed []float64, radius int) (split1, split2 int, err error) {
	w := len(smoothed)
	split1, err = argminWindow(smoothed, w/3-radius, w/3+radius)
	if err != nil {
		return 0, 0, fmt.Errorf("first split: %w", err)
	}
	split2, err = argminWindow(smoothed, (2*w)/3-radius, (2*w)/3+radius)
	if err != nil {
		return 0, 0, fmt.Errorf("second split: %w", err)
	}
	if split1 <= 0 || split1 >= split2 || split2 >= w {
		return 0, 0, fmt.Errorf("%w: splits at x=%d and x=%d in width %d", ErrImageTooNarrow, split1, split2, w)
	}
	return split1, split2, nil
}

// argminWindow searches [lo, hi) clamped to [1, len(p)-1) so that a split
// never produces an empty outer slice.
func argminWindow(p []float64, lo, hi int) (int, error) {
	lo = max(lo, 1)
	hi = min(hi, len(p)-1)
	if lo >= hi {
		return 0, fmt.Errorf("%w: empty window in width %d", ErrImageTooNarrow, len(p))
	}
	return lo + floats.MinIdx(p[lo:hi]), nil
}
