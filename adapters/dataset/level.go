package dataset

import (
	"math"
	"strconv"
	"strings"

	"featurecard/domain/feature"
)

// continuousDistinctThreshold separates continuous from cardinal columns.
const continuousDistinctThreshold = 10

// InferLevel classifies a column from its cells: numeric columns with more
// than ten distinct values are continuous, other numeric columns cardinal,
// everything else nominal.
func InferLevel(cells []string) feature.LevelOfMeasurement {
	values, ok := ParseNumeric(cells)
	if !ok {
		return feature.Nominal
	}
	distinct := make(map[float64]struct{})
	for _, v := range values {
		if !math.IsNaN(v) {
			distinct[v] = struct{}{}
		}
	}
	if len(distinct) > continuousDistinctThreshold {
		return feature.Continuous
	}
	return feature.Cardinal
}

// ParseNumeric parses every cell as a number. Missing cells become NaN.
// ok is false as soon as a present cell is not numeric.
func ParseNumeric(cells []string) (feature.NumericalSample, bool) {
	values := make(feature.NumericalSample, len(cells))
	for i, cell := range cells {
		v, present, ok := parseCell(cell)
		if !ok {
			return nil, false
		}
		if !present {
			v = math.NaN()
		}
		values[i] = v
	}
	return values, true
}

// NumericOrNaN parses cells leniently: anything unparseable is NaN.
func NumericOrNaN(cells []string) feature.NumericalSample {
	values := make(feature.NumericalSample, len(cells))
	for i, cell := range cells {
		v, present, ok := parseCell(cell)
		if !present || !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	return values
}

func parseCell(cell string) (v float64, present, ok bool) {
	if feature.IsMissingLabel(cell) {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, true, false
	}
	return v, true, true
}
