package featureapi

import (
	"bytes"
	"math"
	"sort"

	"github.com/goccy/go-json"

	"featurecard/domain/feature"
	domainstats "featurecard/domain/stats"
)

// Field names of the feature-info payload.
const (
	fieldName        = "Feature_Name"
	fieldDescription = "Feature_Description"
	fieldLevel       = "Level_of_Measurement"
	fieldStats       = "Descriptive_Stats"
	fieldHistogram   = "histogram_data"
	fieldValueCounts = "value_counts"
	fieldTarget      = "target"
	fieldClasses     = "classes"
	fieldLabel       = "label"

	// missingCountLabel is the key missing entries are counted under in value_counts.
	missingCountLabel = "NaN"
)

// FeatureInfo is the get_feature_info response body.
type FeatureInfo struct {
	FeatureName        string           `json:"Feature_Name"`
	FeatureDescription string           `json:"Feature_Description"`
	LevelOfMeasurement string           `json:"Level_of_Measurement"`
	DescriptiveStats   DescriptiveStats `json:"Descriptive_Stats"`
}

// DescriptiveStats is the stat block of a feature-info payload: the stat
// vocabulary rounded to two decimals, followed by the raw sample.
type DescriptiveStats struct {
	Stats       domainstats.Descriptive
	Histogram   []float64
	ValueCounts ValueCounts
}

// MarshalJSON writes stats in display order. Unavailable stats become null.
func (d DescriptiveStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d.Stats.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, string(entry.Name)); err != nil {
			return nil, err
		}
		if err := writeValue(&buf, entry.Value); err != nil {
			return nil, err
		}
	}
	if len(d.Stats.Entries()) > 0 {
		buf.WriteByte(',')
	}

	if d.Stats.Level.IsNumerical() {
		if err := writeKey(&buf, fieldHistogram); err != nil {
			return nil, err
		}
		histogram := d.Histogram
		if histogram == nil {
			histogram = []float64{}
		}
		data, err := json.Marshal(histogram)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	} else {
		if err := writeKey(&buf, fieldValueCounts); err != nil {
			return nil, err
		}
		data, err := d.ValueCounts.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValueCounts is an ordered label-count mapping. It encodes as a JSON object
// whose keys keep their order; missing entries appear under "NaN".
type ValueCounts struct {
	Categories []feature.Category
	Missing    int
}

// ValueCountsFrom orders counts the way value_counts does: by descending
// count, ties in first-encountered order.
func ValueCountsFrom(sample feature.CategoricalSample) ValueCounts {
	categories := make([]feature.Category, len(sample.Categories))
	copy(categories, sample.Categories)
	sortByCountDesc(categories)
	return ValueCounts{Categories: categories, Missing: sample.Missing}
}

func (v ValueCounts) MarshalJSON() ([]byte, error) {
	entries := v.Categories
	if v.Missing > 0 {
		entries = insertByCount(entries, feature.Category{Label: missingCountLabel, Count: v.Missing})
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, c.Label); err != nil {
			return nil, err
		}
		data, err := json.Marshal(c.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StackedData is the get_stacked_data response body.
type StackedData struct {
	Target             string         `json:"target"`
	LevelOfMeasurement string         `json:"Level_of_Measurement"`
	Classes            []StackedClass `json:"classes"`
}

// StackedClass is the sample of one target class. Exactly one of Histogram
// and ValueCounts is set.
type StackedClass struct {
	Label       string       `json:"label"`
	Histogram   []float64    `json:"histogram_data,omitempty"`
	ValueCounts *ValueCounts `json:"value_counts,omitempty"`
}

// NewStackedData converts stacked samples into their wire form.
func NewStackedData(stacked *feature.Stacked, level feature.LevelOfMeasurement) StackedData {
	out := StackedData{LevelOfMeasurement: string(level), Classes: []StackedClass{}}
	if stacked == nil {
		return out
	}
	out.Target = stacked.Target
	for _, c := range stacked.Classes {
		class := StackedClass{Label: c.Label}
		switch s := c.Sample.(type) {
		case feature.NumericalSample:
			class.Histogram = s.Finite()
		case feature.CategoricalSample:
			counts := ValueCountsFrom(s)
			class.ValueCounts = &counts
		}
		out.Classes = append(out.Classes, class)
	}
	return out
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v domainstats.Value) error {
	var (
		data []byte
		err  error
	)
	switch {
	case !v.Available:
		data = []byte("null")
	case v.IsLabel:
		data, err = json.Marshal(v.Label)
	case math.IsNaN(v.Number) || math.IsInf(v.Number, 0):
		data = []byte("null")
	default:
		data, err = json.Marshal(v.Rounded())
	}
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func sortByCountDesc(categories []feature.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})
}

func insertByCount(categories []feature.Category, c feature.Category) []feature.Category {
	out := make([]feature.Category, 0, len(categories)+1)
	inserted := false
	for _, existing := range categories {
		if !inserted && c.Count > existing.Count {
			out = append(out, c)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, c)
	}
	return out
}
