package plotspec

import (
	"math"
	"strconv"

	"featurecard/domain/plot"
)

// maxBins caps the number of histogram bins.
const maxBins = 50

// binGrid returns equal-width bins spanning [min, max] of the pooled values,
// with Sturges' rule for the bin count.
func binGrid(pooled []float64) []plot.Bin {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range pooled {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n == 0 {
		return nil
	}
	if lo == hi {
		return []plot.Bin{{Low: lo, High: hi}}
	}

	k := int(math.Ceil(math.Log2(float64(n)) + 1))
	if k < 1 {
		k = 1
	}
	if k > maxBins {
		k = maxBins
	}
	width := (hi - lo) / float64(k)
	bins := make([]plot.Bin, k)
	for i := range bins {
		bins[i] = plot.Bin{Low: lo + float64(i)*width, High: lo + float64(i+1)*width}
	}
	bins[k-1].High = hi
	return bins
}

// binCounts counts finite values per bin. The last bin is closed on the right.
func binCounts(bins []plot.Bin, values []float64) []float64 {
	counts := make([]float64, len(bins))
	if len(bins) == 0 {
		return counts
	}
	lo := bins[0].Low
	hi := bins[len(bins)-1].High
	width := bins[0].High - bins[0].Low
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		idx := len(bins) - 1
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= len(bins) {
				idx = len(bins) - 1
			}
		}
		counts[idx]++
	}
	return counts
}

// binLabels names bins by their interval.
func binLabels(bins []plot.Bin) []string {
	labels := make([]string, len(bins))
	for i, b := range bins {
		if b.Low == b.High {
			labels[i] = formatEdge(b.Low)
			continue
		}
		closing := ")"
		if i == len(bins)-1 {
			closing = "]"
		}
		labels[i] = "[" + formatEdge(b.Low) + ", " + formatEdge(b.High) + closing
	}
	return labels
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
