// Package plotspec turns cleaned samples and the view toggles into a
// renderer-agnostic plot description.
package plotspec

import (
	"fmt"

	"featurecard/domain/feature"
	"featurecard/domain/plot"
	"featurecard/internal/profiling"
)

// Viewport is the size of the window hosting the feature card, in pixels.
type Viewport struct {
	Width  int
	Height int
}

// DefaultViewport is used when the host does not report its size.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

const (
	cardWidthFraction        = 0.5
	cardHeightFraction       = 0.45
	fullScreenWidthFraction  = 0.95
	fullScreenHeightFraction = 0.85

	stackedBarGap      = 0.05
	stackedBarGroupGap = 0.1
)

// Input is everything the builder looks at. Sample and Stacked must already
// be cleaned.
type Input struct {
	FeatureName string
	Level       feature.LevelOfMeasurement
	Sample      feature.Sample
	Stacked     *feature.Stacked
	State       feature.ViewState
}

// Builder derives plot specs.
type Builder struct {
	viewport Viewport
}

// NewBuilder creates a builder sized against the given viewport.
func NewBuilder(viewport Viewport) *Builder {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		viewport = DefaultViewport
	}
	return &Builder{viewport: viewport}
}

// Build picks one of four branches: stacked or not, numerical or categorical.
// An empty sample yields a spec with no traces.
func (b *Builder) Build(in Input) plot.Spec {
	spec := plot.Spec{Layout: b.layout(in)}

	stacked := in.State.StackedWrtTarget && in.Stacked != nil
	switch {
	case stacked && in.Level.IsNumerical():
		spec.Traces = stackedNumerical(in.Stacked, in.State.UsePercentageAxis)
	case stacked:
		spec.Traces = stackedCategorical(in.Stacked, in.State.UsePercentageAxis)
	case in.Level.IsNumerical():
		spec.Traces = singleNumerical(in.FeatureName, in.Sample, in.State.UsePercentageAxis)
	default:
		spec.Traces = singleCategorical(in.FeatureName, in.Sample, in.State.UsePercentageAxis)
	}

	if stacked && len(spec.Traces) > 0 {
		spec.Layout.BarMode = plot.BarModeGroup
		spec.Layout.BarGap = stackedBarGap
		spec.Layout.BarGroupGap = stackedBarGroupGap
		spec.Layout.ShowLegend = true
	}
	return spec
}

func (b *Builder) layout(in Input) plot.Layout {
	layout := plot.Layout{
		Title:      fmt.Sprintf("Distribution of %s", in.FeatureName),
		XAxisTitle: fmt.Sprintf("Values of %s", in.FeatureName),
		YAxisTitle: "Count",
		YUnit:      plot.UnitCount,
		BarMode:    plot.BarModeOverlay,
		FullScreen: in.State.IsFullScreen,
	}
	if in.State.UsePercentageAxis {
		layout.YAxisTitle = "Percentage"
		layout.YUnit = plot.UnitPercent
	}

	wf, hf := cardWidthFraction, cardHeightFraction
	if in.State.IsFullScreen {
		wf, hf = fullScreenWidthFraction, fullScreenHeightFraction
	}
	layout.Width = int(float64(b.viewport.Width) * wf)
	layout.Height = int(float64(b.viewport.Height) * hf)
	return layout
}

func singleNumerical(name string, sample feature.Sample, percent bool) []plot.Trace {
	values, ok := sample.(feature.NumericalSample)
	if !ok || values.IsEmpty() {
		return nil
	}
	finite := values.Finite()
	bins := binGrid(finite)
	return []plot.Trace{
		histogramTrace(name, "", bins, finite, percent, singleColor, singleOpacity),
		boxTrace(name, "", finite, singleColor, singleOpacity),
	}
}

func singleCategorical(name string, sample feature.Sample, percent bool) []plot.Trace {
	counts, ok := sample.(feature.CategoricalSample)
	if !ok || counts.IsEmpty() {
		return nil
	}
	labels := counts.Labels()
	return []plot.Trace{barTrace(name, "", labels, counts, percent, singleColor, singleOpacity)}
}

func stackedNumerical(stacked *feature.Stacked, percent bool) []plot.Trace {
	var pooled []float64
	for _, c := range stacked.Classes {
		if values, ok := c.Sample.(feature.NumericalSample); ok {
			pooled = append(pooled, values.Finite()...)
		}
	}
	bins := binGrid(pooled)

	var traces []plot.Trace
	for i, c := range stacked.Classes {
		values, ok := c.Sample.(feature.NumericalSample)
		if !ok || values.IsEmpty() {
			continue
		}
		finite := values.Finite()
		color := ClassColor(i)
		traces = append(traces,
			histogramTrace(c.Label, c.Label, bins, finite, percent, color, classOpacity),
			boxTrace(c.Label, c.Label, finite, color, classOpacity),
		)
	}
	return traces
}

func stackedCategorical(stacked *feature.Stacked, percent bool) []plot.Trace {
	var union []string
	seen := make(map[string]bool)
	for _, c := range stacked.Classes {
		counts, ok := c.Sample.(feature.CategoricalSample)
		if !ok {
			continue
		}
		for _, label := range counts.Labels() {
			if !seen[label] {
				seen[label] = true
				union = append(union, label)
			}
		}
	}

	var traces []plot.Trace
	for i, c := range stacked.Classes {
		counts, ok := c.Sample.(feature.CategoricalSample)
		if !ok || counts.IsEmpty() {
			continue
		}
		traces = append(traces, barTrace(c.Label, c.Label, union, counts, percent, ClassColor(i), classOpacity))
	}
	return traces
}

func histogramTrace(name, class string, bins []plot.Bin, values []float64, percent bool, color string, opacity float64) plot.Trace {
	return plot.Trace{
		Kind:    plot.KindHistogram,
		Name:    name,
		Class:   class,
		X:       binLabels(bins),
		Y:       scale(binCounts(bins, values), float64(len(values)), percent),
		Bins:    bins,
		Values:  values,
		Color:   color,
		Opacity: opacity,
	}
}

func boxTrace(name, class string, values []float64, color string, opacity float64) plot.Trace {
	trace := plot.Trace{
		Kind:    plot.KindBox,
		Name:    name,
		Class:   class,
		X:       []string{name},
		Values:  values,
		Color:   color,
		Opacity: opacity,
	}
	lower, q1, median, q3, upper, outliers, err := profiling.BoxSummary(values)
	if err == nil {
		trace.Box = &plot.BoxSummary{
			LowerWhisker: lower,
			Q1:           q1,
			Median:       median,
			Q3:           q3,
			UpperWhisker: upper,
			Outliers:     outliers,
		}
	}
	return trace
}

// barTrace plots counts over labels; labels absent from counts contribute 0.
func barTrace(name, class string, labels []string, counts feature.CategoricalSample, percent bool, color string, opacity float64) plot.Trace {
	y := make([]float64, len(labels))
	total := 0.0
	for _, c := range counts.Categories {
		total += float64(c.Count)
	}
	for i, label := range labels {
		y[i] = float64(counts.Count(label))
	}
	x := make([]string, len(labels))
	copy(x, labels)
	return plot.Trace{
		Kind:    plot.KindBar,
		Name:    name,
		Class:   class,
		X:       x,
		Y:       scale(y, total, percent),
		Color:   color,
		Opacity: opacity,
	}
}

// scale converts counts to percent of total when asked.
func scale(counts []float64, total float64, percent bool) []float64 {
	if !percent || total == 0 {
		return counts
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = c / total * 100
	}
	return out
}
