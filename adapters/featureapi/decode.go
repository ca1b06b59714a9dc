package featureapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"featurecard/domain/core"
	"featurecard/domain/feature"
)

// DecodeFeatureInfo validates a feature-info body and turns it into a typed
// feature. The level of measurement picks which raw sample is read:
// histogram_data for numerical columns, value_counts for categorical ones.
func DecodeFeatureInfo(key feature.Key, body []byte) (feature.Feature, error) {
	if !gjson.ValidBytes(body) {
		return nil, core.NewInvalidFeatureError("feature info is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	levelField := root.Get(fieldLevel)
	if !levelField.Exists() {
		return nil, core.NewInvalidFeatureError("missing " + fieldLevel)
	}
	level, err := feature.ParseLevel(levelField.String())
	if err != nil {
		return nil, err
	}

	record := feature.Record{
		Key:         key,
		Description: root.Get(fieldDescription).String(),
		Level:       level,
	}

	statsBlock := root.Get(fieldStats)
	if !statsBlock.IsObject() {
		return nil, core.NewInvalidFeatureError("missing " + fieldStats)
	}

	sample, err := decodeSample(statsBlock, level)
	if err != nil {
		return nil, err
	}
	return feature.NewFeature(record, sample)
}

// DecodeStacked validates a stacked-data body, reading each class as a sample
// of the given level. Classes keep their order of appearance. When level is
// empty the body's own Level_of_Measurement is used.
func DecodeStacked(body []byte, level feature.LevelOfMeasurement) (*feature.Stacked, error) {
	if !gjson.ValidBytes(body) {
		return nil, core.NewInvalidFeatureError("stacked data is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	if level == "" {
		levelField := root.Get(fieldLevel)
		if !levelField.Exists() {
			return nil, core.NewInvalidFeatureError("missing " + fieldLevel)
		}
		parsed, err := feature.ParseLevel(levelField.String())
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	classes := root.Get(fieldClasses)
	if !classes.IsArray() {
		return nil, core.NewInvalidFeatureError("missing " + fieldClasses)
	}

	stacked := &feature.Stacked{Target: root.Get(fieldTarget).String()}
	var decodeErr error
	classes.ForEach(func(_, class gjson.Result) bool {
		label := class.Get(fieldLabel)
		if !label.Exists() {
			decodeErr = core.NewInvalidFeatureError("stacked class without label")
			return false
		}
		sample, err := decodeSample(class, level)
		if err != nil {
			decodeErr = err
			return false
		}
		stacked.Classes = append(stacked.Classes, feature.ClassSample{Label: label.String(), Sample: sample})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return stacked, nil
}

// decodeSample reads the raw sample held by block. A missing histogram or
// value_counts field decodes as an empty sample.
func decodeSample(block gjson.Result, level feature.LevelOfMeasurement) (feature.Sample, error) {
	if level.IsNumerical() {
		field := block.Get(fieldHistogram)
		if field.Exists() && !field.IsArray() {
			return nil, core.NewInvalidFeatureError(fieldHistogram + " is not an array")
		}
		values := feature.NumericalSample{}
		for _, v := range field.Array() {
			values = append(values, toNumber(v))
		}
		return values, nil
	}

	field := block.Get(fieldValueCounts)
	if field.Exists() && !field.IsObject() {
		return nil, core.NewInvalidFeatureError(fieldValueCounts + " is not an object")
	}
	var order []string
	counts := make(map[string]int)
	var decodeErr error
	field.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Number || v.Num < 0 || v.Num != math.Trunc(v.Num) {
			decodeErr = core.NewInvalidFeatureError(fmt.Sprintf("count for %q is not a non-negative integer", k.String()))
			return false
		}
		label := k.String()
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label] += int(v.Int())
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return feature.CategoricalFromCounts(order, counts), nil
}

// toNumber maps JSON values onto the numerical sample; anything that is not a
// finite number becomes NaN.
func toNumber(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
