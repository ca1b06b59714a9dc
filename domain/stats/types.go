package stats

import (
	"math"
	"strconv"

	"featurecard/domain/feature"
)

// Name identifies one descriptive statistic. Values follow the display
// vocabulary of the feature card.
type Name string

// Numerical vocabulary
const (
	Mean       Name = "Mean"
	Min        Name = "Min"
	Quantile1  Name = "1st_Quantile"
	Quantile5  Name = "5th_Quantile"
	Q1         Name = "25th_Q1"
	Median     Name = "50th_Median"
	Q3         Name = "75th_Q3"
	Quantile95 Name = "95th_Quantile"
	Quantile99 Name = "99th_Quantile"
	Max        Name = "Max"
	Std        Name = "Std"
	Skewness   Name = "Skewness"
	Kurtosis   Name = "Kurtosis"
)

// Categorical vocabulary
const (
	CategoryCount     Name = "#_of_Categories"
	ModeValue         Name = "Mode_Value"
	ModeRatio         Name = "Mode_Ratio"
	MissingRatio      Name = "Missing_Ratio"
	OutlierCategories Name = "#_of_Outlier_Categories"
)

// NumericalVocabulary lists numerical stats in display order.
var NumericalVocabulary = []Name{
	Mean, Min, Quantile1, Quantile5, Q1, Median, Q3, Quantile95, Quantile99, Max, Std, Skewness, Kurtosis,
}

// CategoricalVocabulary lists categorical stats in display order.
var CategoricalVocabulary = []Name{
	CategoryCount, ModeValue, ModeRatio, MissingRatio, OutlierCategories,
}

// Vocabulary returns the stat names shown for a level of measurement.
func Vocabulary(level feature.LevelOfMeasurement) []Name {
	if level.IsNumerical() {
		return NumericalVocabulary
	}
	return CategoricalVocabulary
}

// NotAvailable is the display text of an unavailable stat.
const NotAvailable = "N/A"

// Value is a single stat: a number, a label, or unavailable.
type Value struct {
	Number    float64 `json:"number,omitempty"`
	Label     string  `json:"label,omitempty"`
	IsLabel   bool    `json:"is_label,omitempty"`
	Available bool    `json:"available"`
}

// Number wraps a numeric stat. Non-finite numbers are unavailable.
func Number(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable()
	}
	return Value{Number: v, Available: true}
}

// Label wraps a textual stat such as the mode value of a categorical column.
func Label(s string) Value {
	return Value{Label: s, IsLabel: true, Available: true}
}

// Unavailable marks a stat that could not be computed.
func Unavailable() Value {
	return Value{}
}

// Rounded returns the numeric value rounded to two decimals.
func (v Value) Rounded() float64 {
	return Round2(v.Number)
}

func (v Value) String() string {
	switch {
	case !v.Available:
		return NotAvailable
	case v.IsLabel:
		return v.Label
	default:
		return strconv.FormatFloat(Round2(v.Number), 'f', -1, 64)
	}
}

// Round2 rounds to two decimals, the precision used for display and payloads.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Descriptive maps stat names to values for one sample.
type Descriptive struct {
	Level      feature.LevelOfMeasurement `json:"level_of_measurement"`
	SampleSize int                        `json:"sample_size"`
	Values     map[Name]Value             `json:"values"`
}

// NewDescriptive creates an empty stat set with every vocabulary entry unavailable.
func NewDescriptive(level feature.LevelOfMeasurement, sampleSize int) Descriptive {
	d := Descriptive{
		Level:      level,
		SampleSize: sampleSize,
		Values:     make(map[Name]Value),
	}
	for _, name := range Vocabulary(level) {
		d.Values[name] = Unavailable()
	}
	return d
}

// Get returns a stat, unavailable when it was never set.
func (d Descriptive) Get(name Name) Value {
	if v, ok := d.Values[name]; ok {
		return v
	}
	return Unavailable()
}

// Set stores a stat.
func (d Descriptive) Set(name Name, v Value) {
	d.Values[name] = v
}

// Names returns the vocabulary for the level in display order.
func (d Descriptive) Names() []Name {
	return Vocabulary(d.Level)
}

// Entry is one row of the stats panel.
type Entry struct {
	Name  Name
	Value Value
}

// Entries returns the panel rows in display order.
func (d Descriptive) Entries() []Entry {
	names := d.Names()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Value: d.Get(name)})
	}
	return entries
}

// AllUnavailable reports whether no stat could be computed.
func (d Descriptive) AllUnavailable() bool {
	for _, v := range d.Values {
		if v.Available {
			return false
		}
	}
	return true
}
