package profiling

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
	"featurecard/internal"
)

// DistributionAnalyzer computes the numerical stat vocabulary
type DistributionAnalyzer struct {
	logger *internal.Logger
}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{logger: internal.DefaultLogger.With("Profiling")}
}

// quantileStats maps percentile-style stats to their probability.
var quantileStats = []struct {
	name domainstats.Name
	p    float64
}{
	{domainstats.Quantile1, 0.01},
	{domainstats.Quantile5, 0.05},
	{domainstats.Q1, 0.25},
	{domainstats.Median, 0.50},
	{domainstats.Q3, 0.75},
	{domainstats.Quantile95, 0.95},
	{domainstats.Quantile99, 0.99},
}

// AnalyzeDistribution computes every numerical stat over the finite entries of
// data. An empty sample yields all stats unavailable.
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) domainstats.Descriptive {
	sorted := SortedFinite(data)
	result := domainstats.NewDescriptive(feature.Continuous, len(sorted))
	if len(sorted) == 0 {
		da.logger.Debug("empty numerical sample, all stats unavailable")
		return result
	}

	da.compute(result, domainstats.Mean, func() (float64, error) { return stats.Mean(sorted) })
	da.compute(result, domainstats.Min, func() (float64, error) { return sorted[0], nil })
	da.compute(result, domainstats.Max, func() (float64, error) { return sorted[len(sorted)-1], nil })
	for _, q := range quantileStats {
		p := q.p
		da.compute(result, q.name, func() (float64, error) { return Quantile(sorted, p), nil })
	}
	da.compute(result, domainstats.Std, func() (float64, error) { return stats.StandardDeviationPopulation(sorted) })

	mean, meanErr := stats.Mean(sorted)
	stdDev, stdErr := stats.StandardDeviationPopulation(sorted)
	if meanErr != nil || stdErr != nil {
		return result
	}
	da.compute(result, domainstats.Skewness, func() (float64, error) { return calculateSkewness(sorted, mean, stdDev), nil })
	da.compute(result, domainstats.Kurtosis, func() (float64, error) { return calculateKurtosis(sorted, mean, stdDev), nil })

	return result
}

// compute stores one stat, converting errors and panics into an unavailable value
// so one bad stat never blanks the panel.
func (da *DistributionAnalyzer) compute(result domainstats.Descriptive, name domainstats.Name, fn func() (float64, error)) {
	defer func() {
		if r := recover(); r != nil {
			da.logger.Warn("stat %s failed: %v", name, r)
			result.Set(name, domainstats.Unavailable())
		}
	}()

	v, err := fn()
	if err != nil {
		da.logger.Debug("stat %s unavailable: %v", name, err)
		result.Set(name, domainstats.Unavailable())
		return
	}
	result.Set(name, domainstats.Number(v))
}

// calculateSkewness is the mean of cubed z-scores; 0 when the sample has no spread
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if stdDev == 0 || len(data) == 0 {
		return 0
	}

	sumCubedDeviations := 0.0
	for _, x := range data {
		z := (x - mean) / stdDev
		sumCubedDeviations += z * z * z
	}
	return sumCubedDeviations / float64(len(data))
}

// calculateKurtosis is the excess kurtosis: mean of fourth-power z-scores minus 3.
// 0 when the sample has no spread.
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if stdDev == 0 || len(data) == 0 {
		return 0
	}

	sumFourthDeviations := 0.0
	for _, x := range data {
		z := (x - mean) / stdDev
		sumFourthDeviations += z * z * z * z
	}
	return sumFourthDeviations/float64(len(data)) - 3
}

// BoxSummary computes quartiles and Tukey whiskers over the finite entries of data.
func BoxSummary(data []float64) (lower, q1, median, q3, upper float64, outliers []float64, err error) {
	sorted := SortedFinite(data)
	if len(sorted) == 0 {
		return 0, 0, 0, 0, 0, nil, fmt.Errorf("box summary: %w", stats.ErrEmptyInput)
	}

	q1 = Quantile(sorted, 0.25)
	median = Quantile(sorted, 0.5)
	q3 = Quantile(sorted, 0.75)
	iqr := q3 - q1
	lowFence := q1 - 1.5*iqr
	highFence := q3 + 1.5*iqr

	lower, upper = math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			outliers = append(outliers, v)
			continue
		}
		lower = math.Min(lower, v)
		upper = math.Max(upper, v)
	}
	if math.IsInf(lower, 1) {
		lower, upper = median, median
	}
	return lower, q1, median, q3, upper, outliers, nil
}
