// Package render draws plot specs with go-echarts and manages the
// process-wide renderer and the drawing surfaces it writes into.
package render

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"featurecard/domain/plot"
	"featurecard/internal"
	"featurecard/internal/plotspec"
)

// DefaultAssetsHost serves the echarts javascript assets.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// EChartsRenderer renders a spec as an HTML page holding one bar chart
// (histograms and category bars) and, for numerical features, one box plot.
type EChartsRenderer struct {
	assetsHost string
	logger     *internal.Logger
}

// NewEChartsRenderer validates the assets host and builds a renderer.
func NewEChartsRenderer(assetsHost string) (*EChartsRenderer, error) {
	if assetsHost == "" {
		assetsHost = DefaultAssetsHost
	}
	u, err := url.Parse(assetsHost)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "") {
		return nil, fmt.Errorf("invalid assets host %q", assetsHost)
	}
	return &EChartsRenderer{
		assetsHost: assetsHost,
		logger:     internal.DefaultLogger.With("Renderer"),
	}, nil
}

// Render writes the charts for spec into w. Chart ids derive from divID.
func (r *EChartsRenderer) Render(w io.Writer, divID string, spec plot.Spec) error {
	if spec.IsEmpty() {
		return nil
	}
	page := components.NewPage()
	page.SetPageTitle(spec.Layout.Title)
	page.SetAssetsHost(r.assetsHost)

	page.AddCharts(r.barChart(ChartID(divID), spec))
	if boxes := spec.TracesOfKind(plot.KindBox); len(boxes) > 0 {
		page.AddCharts(r.boxChart(ChartID(divID)+"_box", spec.Layout, boxes))
	}

	r.logger.Debug("rendering %s: %d traces", divID, len(spec.Traces))
	return page.Render(w)
}

func (r *EChartsRenderer) initialization(chartID string, layout plot.Layout, height int) opts.Initialization {
	return opts.Initialization{
		ChartID:    chartID,
		PageTitle:  layout.Title,
		Width:      px(layout.Width),
		Height:     px(height),
		AssetsHost: r.assetsHost,
	}
}

func (r *EChartsRenderer) barChart(chartID string, spec plot.Spec) *charts.Bar {
	layout := spec.Layout
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.initialization(chartID, layout, layout.Height)),
		charts.WithTitleOpts(opts.Title{Title: layout.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: layout.XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: layout.YAxisTitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(layout.ShowLegend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	traces := barTraces(spec)
	if len(traces) == 0 {
		return bar
	}
	bar.SetXAxis(traces[0].X)
	for i, trace := range traces {
		data := make([]opts.BarData, len(trace.Y))
		for j, y := range trace.Y {
			data[j] = opts.BarData{Value: y}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: plotspec.RGBA(trace.Color, trace.Opacity)}),
		}
		// gaps are shared by all series and must be set on the last one
		if i == len(traces)-1 {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(barGaps(layout, trace.Kind)))
		}
		bar.AddSeries(trace.Name, data, seriesOpts...)
	}
	return bar
}

func (r *EChartsRenderer) boxChart(chartID string, layout plot.Layout, traces []plot.Trace) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(r.initialization(chartID, layout, layout.Height/2)),
		charts.WithYAxisOpts(opts.YAxis{Name: layout.XAxisTitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(layout.ShowLegend)}),
	)
	box.SetXAxis([]string{layout.XAxisTitle})
	for _, trace := range traces {
		if trace.Box == nil {
			continue
		}
		s := trace.Box
		box.AddSeries(trace.Name,
			[]opts.BoxPlotData{{Value: []float64{s.LowerWhisker, s.Q1, s.Median, s.Q3, s.UpperWhisker}}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: plotspec.RGBA(trace.Color, trace.Opacity)}),
		)
	}
	return box
}

// barTraces returns the histogram or bar traces of a spec.
func barTraces(spec plot.Spec) []plot.Trace {
	if hist := spec.TracesOfKind(plot.KindHistogram); len(hist) > 0 {
		return hist
	}
	return spec.TracesOfKind(plot.KindBar)
}

// barGaps maps the layout gaps onto echarts. Histogram bins touch.
func barGaps(layout plot.Layout, kind plot.TraceKind) opts.BarChart {
	gaps := opts.BarChart{}
	if kind == plot.KindHistogram && layout.BarMode != plot.BarModeGroup {
		gaps.BarCategoryGap = "0%"
	}
	if layout.BarMode == plot.BarModeGroup {
		gaps.BarCategoryGap = percent(layout.BarGap)
		gaps.BarGap = percent(layout.BarGroupGap)
	}
	return gaps
}

var nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ChartID turns a div id into an element id that is also a valid javascript
// identifier suffix, as echarts names its chart variables after it.
func ChartID(divID string) string {
	return nonIdentChars.ReplaceAllString(divID, "_")
}

func percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', -1, 64) + "%"
}

func px(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v) + "px"
}
