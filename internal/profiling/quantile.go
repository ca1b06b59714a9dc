package profiling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// QuantileMethod is the one quantile definition used everywhere: stats panel,
// outlier bounds and box summaries. LinInterp interpolates the empirical CDF
// at h = n*p, so bounds never fall outside the observed range.
const QuantileMethod = stat.LinInterp

// Quantile returns the p-quantile (0 <= p <= 1) of an ascending-sorted slice.
// It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, QuantileMethod, sorted, nil)
}

// Percentile returns the pct-th percentile (0..100) of values. Non-finite
// entries are ignored; ok is false when nothing finite remains.
func Percentile(values []float64, pct float64) (v float64, ok bool) {
	sorted := SortedFinite(values)
	if len(sorted) == 0 {
		return math.NaN(), false
	}
	return Quantile(sorted, pct/100), true
}

// SortedFinite returns an ascending copy of the finite entries of values.
func SortedFinite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
