package feature

import (
	"math"
	"sort"
	"strings"
)

// Sample is the unit of input data for one column.
type Sample interface {
	// Len counts every entry, missing ones included.
	Len() int
	IsEmpty() bool
	isSample()
}

// NumericalSample is an ordered sequence of numbers. Missing or unparseable
// entries are kept as NaN.
type NumericalSample []float64

func (s NumericalSample) Len() int { return len(s) }

// IsEmpty reports whether no finite value remains.
func (s NumericalSample) IsEmpty() bool {
	for _, v := range s {
		if isFinite(v) {
			return false
		}
	}
	return true
}

func (NumericalSample) isSample() {}

// Finite returns the finite values in their original order.
func (s NumericalSample) Finite() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Category is one label with its occurrence count.
type Category struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoricalSample holds label counts in first-encountered order plus the
// number of missing entries.
type CategoricalSample struct {
	Categories []Category `json:"categories"`
	Missing    int        `json:"missing"`
}

func (s CategoricalSample) Len() int {
	total := s.Missing
	for _, c := range s.Categories {
		total += c.Count
	}
	return total
}

// IsEmpty reports whether no non-missing label is present.
func (s CategoricalSample) IsEmpty() bool {
	for _, c := range s.Categories {
		if c.Count > 0 {
			return false
		}
	}
	return true
}

func (CategoricalSample) isSample() {}

// Count returns the count for a label, 0 when absent.
func (s CategoricalSample) Count(label string) int {
	for _, c := range s.Categories {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

// Labels returns the labels in their natural order.
func (s CategoricalSample) Labels() []string {
	labels := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		labels = append(labels, c.Label)
	}
	return labels
}

// missingLabels are the spellings treated as null when deriving counts.
var missingLabels = map[string]bool{
	"":     true,
	"nan":  true,
	"null": true,
	"none": true,
	"<na>": true,
}

// IsMissingLabel reports whether a raw label denotes a missing value.
func IsMissingLabel(label string) bool {
	return missingLabels[strings.ToLower(strings.TrimSpace(label))]
}

// CategoricalFromLabels derives counts from raw labels.
func CategoricalFromLabels(labels []string) CategoricalSample {
	var sample CategoricalSample
	index := make(map[string]int)
	for _, label := range labels {
		if IsMissingLabel(label) {
			sample.Missing++
			continue
		}
		if i, ok := index[label]; ok {
			sample.Categories[i].Count++
			continue
		}
		index[label] = len(sample.Categories)
		sample.Categories = append(sample.Categories, Category{Label: label, Count: 1})
	}
	return sample
}

// CategoricalFromCounts builds a sample from a label-count mapping. order fixes
// the natural order of the labels; keys of counts missing from order follow,
// sorted lexically so the result stays deterministic.
func CategoricalFromCounts(order []string, counts map[string]int) CategoricalSample {
	var sample CategoricalSample
	seen := make(map[string]bool, len(counts))
	add := func(label string) {
		count, ok := counts[label]
		if !ok || seen[label] {
			return
		}
		seen[label] = true
		if IsMissingLabel(label) {
			sample.Missing += count
			return
		}
		sample.Categories = append(sample.Categories, Category{Label: label, Count: count})
	}

	for _, label := range order {
		add(label)
	}
	rest := make([]string, 0, len(counts))
	for label := range counts {
		if !seen[label] {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	for _, label := range rest {
		add(label)
	}
	return sample
}
