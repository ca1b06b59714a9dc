package plot

// TraceKind is the mark type of a trace.
type TraceKind string

const (
	KindHistogram TraceKind = "histogram"
	KindBar       TraceKind = "bar"
	KindBox       TraceKind = "box"
)

// YUnit is the unit of the Y axis.
type YUnit string

const (
	UnitCount   YUnit = "count"
	UnitPercent YUnit = "percent"
)

// BarMode controls how bar-like traces share the X axis.
type BarMode string

const (
	BarModeOverlay BarMode = "overlay"
	BarModeGroup   BarMode = "group"
)

// Bin is a half-open histogram bin [Low, High); the last bin of a grid is closed.
type Bin struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// BoxSummary is the five-number summary drawn by a box trace, with Tukey
// whiskers and the points beyond them.
type BoxSummary struct {
	LowerWhisker float64   `json:"lower_whisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// Trace is one renderer-agnostic series.
type Trace struct {
	Kind    TraceKind   `json:"type"`
	Name    string      `json:"name"`
	Class   string      `json:"class,omitempty"`
	X       []string    `json:"x"`
	Y       []float64   `json:"y,omitempty"`
	Bins    []Bin       `json:"bins,omitempty"`
	Values  []float64   `json:"values,omitempty"`
	Box     *BoxSummary `json:"box,omitempty"`
	Color   string      `json:"color"`
	Opacity float64     `json:"opacity"`
}

// Layout carries axis, legend and size parameters.
type Layout struct {
	Title       string  `json:"title"`
	XAxisTitle  string  `json:"xaxis_title"`
	YAxisTitle  string  `json:"yaxis_title"`
	YUnit       YUnit   `json:"y_unit"`
	BarMode     BarMode `json:"barmode"`
	BarGap      float64 `json:"bargap"`
	BarGroupGap float64 `json:"bargroupgap"`
	ShowLegend  bool    `json:"showlegend"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FullScreen  bool    `json:"full_screen"`
}

// Spec is a complete plot description handed to a renderer.
type Spec struct {
	Traces []Trace `json:"traces"`
	Layout Layout  `json:"layout"`
}

// IsEmpty reports whether there is nothing to draw.
func (s Spec) IsEmpty() bool {
	return len(s.Traces) == 0
}

// TracesOfKind returns the traces with the given kind, in order.
func (s Spec) TracesOfKind(kind TraceKind) []Trace {
	var out []Trace
	for _, t := range s.Traces {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
