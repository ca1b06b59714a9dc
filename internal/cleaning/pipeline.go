package cleaning

import (
	"featurecard/domain/feature"
)

// Options selects the active filters.
type Options struct {
	Outliers bool
	Sparsity bool
}

// OptionsFrom reads the cleaning toggles of a view state.
func OptionsFrom(state feature.ViewState) Options {
	return Options{
		Outliers: state.OutlierCleaningEnabled,
		Sparsity: state.SparsityCleaningEnabled,
	}
}

// Active reports whether any filter is on.
func (o Options) Active() bool {
	return o.Outliers || o.Sparsity
}

// Apply runs the active filters over a sample. Both filters apply to
// numerical columns only; outlier trim always runs before sparsity trim since
// the two do not commute.
func Apply(sample feature.Sample, level feature.LevelOfMeasurement, opts Options) feature.Sample {
	values, ok := sample.(feature.NumericalSample)
	if !ok || !level.IsNumerical() || !opts.Active() {
		return sample
	}

	cleaned := []float64(values)
	if opts.Outliers {
		cleaned = CleanOutliers(cleaned)
	}
	if opts.Sparsity {
		cleaned = CleanSparsityNumerical(cleaned)
	}
	return feature.NumericalSample(cleaned)
}

// ApplyStacked runs Apply independently on every target class, so each class
// gets its own bounds and mode.
func ApplyStacked(stacked *feature.Stacked, level feature.LevelOfMeasurement, opts Options) *feature.Stacked {
	if stacked == nil || !opts.Active() {
		return stacked
	}
	return stacked.Map(func(s feature.Sample) feature.Sample {
		return Apply(s, level, opts)
	})
}
