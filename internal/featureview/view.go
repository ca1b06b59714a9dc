// Package featureview orchestrates one feature card: it fetches feature data,
// applies the cleaning toggles, recomputes stats, builds the plot and draws it.
package featureview

import (
	"featurecard/domain/feature"
	"featurecard/domain/plot"
	domainstats "featurecard/domain/stats"
	"featurecard/internal/cleaning"
	"featurecard/internal/plotspec"
	"featurecard/internal/profiling"
)

// View is everything derived from a feature and a view state.
type View struct {
	Record     feature.Record          `json:"record"`
	State      feature.ViewState       `json:"state"`
	Stats      domainstats.Descriptive `json:"stats"`
	ClassStats []profiling.ClassStats  `json:"class_stats,omitempty"`
	Plot       plot.Spec               `json:"plot"`
	// Cleaned reports whether any cleaning filter changed the input.
	Cleaned bool `json:"cleaned"`
	// NoData is set when nothing is left to draw.
	NoData bool `json:"no_data"`
}

// Stacked reports whether the view shows per-class traces.
func (v View) Stacked() bool {
	return v.State.StackedWrtTarget && len(v.ClassStats) > 0
}

// DeriveView runs clean, recompute and build for one state. It is pure:
// stats always come from the sample the plot is built from. stacked may be
// nil when stacking is off or its data is not loaded.
func DeriveView(f feature.Feature, stacked *feature.Stacked, state feature.ViewState, builder *plotspec.Builder) View {
	record := f.Info()
	level := record.Level
	state = state.Normalize(level)
	opts := cleaning.OptionsFrom(state)

	raw := f.Sample()
	sample := cleaning.Apply(raw, level, opts)
	view := View{
		Record:  record,
		State:   state,
		Stats:   profiling.ComputeStats(sample, level),
		Cleaned: sample.Len() != raw.Len(),
	}

	in := plotspec.Input{
		FeatureName: record.Key.Column,
		Level:       level,
		Sample:      sample,
		State:       state,
	}
	if state.StackedWrtTarget && stacked != nil {
		cleaned := cleaning.ApplyStacked(stacked, level, opts)
		in.Stacked = cleaned
		view.ClassStats = profiling.ProfileStacked(cleaned, level)
	}

	view.Plot = builder.Build(in)
	view.NoData = view.Plot.IsEmpty()
	return view
}
