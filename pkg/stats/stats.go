// Package stats holds the small set of descriptive statistics the feature
// pipeline needs, computed the way the reference training data tooling does:
// modes break ties toward the smallest value and quantiles interpolate
// linearly between order statistics (rank = p*(n-1)).
package stats

import (
	"cmp"
	"math"
	"slices"
)

// Median returns the median of values, ignoring NaN. ok is false when no
// finite value is present.
func Median(values []float64) (median float64, ok bool) {
	return Quantile(values, 0.5)
}

// Quantile returns the p-quantile (p in [0,1]) of values using linear
// interpolation, ignoring NaN.
func Quantile(values []float64, p float64) (float64, bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return 0, false
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], true
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}

// Mode returns the most frequent value. Ties resolve to the smallest value.
func Mode[T cmp.Ordered](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}

	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	var (
		best      T
		bestCount int
	)
	for v, c := range counts {
		if c > bestCount || (c == bestCount && cmp.Less(v, best)) {
			best, bestCount = v, c
		}
	}
	return best, true
}

// FloatMode is Mode over float64 that skips NaN.
func FloatMode(values []float64) (float64, bool) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	return Mode(finite)
}

// IQRBounds returns the Tukey fences [Q1 - k*IQR, Q3 + k*IQR].
func IQRBounds(values []float64, k float64) (lower, upper float64, ok bool) {
	q1, ok1 := Quantile(values, 0.25)
	q3, ok3 := Quantile(values, 0.75)
	if !ok1 || !ok3 {
		return 0, 0, false
	}
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr, true
}

func sortedFinite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
