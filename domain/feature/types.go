package feature

import (
	"fmt"
	"strings"

	"featurecard/domain/core"
)

// LevelOfMeasurement classifies a column. It is fixed for the lifetime of a view.
type LevelOfMeasurement string

const (
	Continuous LevelOfMeasurement = "continuous"
	Cardinal   LevelOfMeasurement = "cardinal"
	Nominal    LevelOfMeasurement = "nominal"
	Ordinal    LevelOfMeasurement = "ordinal"
)

// ParseLevel validates a level of measurement coming from the backend.
func ParseLevel(s string) (LevelOfMeasurement, error) {
	switch level := LevelOfMeasurement(strings.ToLower(strings.TrimSpace(s))); level {
	case Continuous, Cardinal, Nominal, Ordinal:
		return level, nil
	default:
		return "", core.NewInvalidFeatureError(fmt.Sprintf("unknown level of measurement %q", s))
	}
}

// IsNumerical reports whether numerical algorithms apply.
func (l LevelOfMeasurement) IsNumerical() bool {
	return l == Continuous || l == Cardinal
}

// IsCategorical reports whether categorical algorithms apply.
func (l LevelOfMeasurement) IsCategorical() bool {
	return l == Nominal || l == Ordinal
}

// Key identifies a column under analysis.
type Key struct {
	FileID core.FileID `json:"file_id"`
	Column string      `json:"column"`
}

// NewKey builds a Key after validating both parts.
func NewKey(fileID, column string) (Key, error) {
	id, err := core.ParseFileID(fileID)
	if err != nil {
		return Key{}, err
	}
	if strings.TrimSpace(column) == "" {
		return Key{}, core.NewInvalidFeatureError("column name cannot be empty")
	}
	return Key{FileID: id, Column: column}, nil
}

func (k Key) String() string {
	return k.FileID.String() + ":" + k.Column
}

// Record describes a column: its identity, description and level of measurement.
type Record struct {
	Key         Key                `json:"key"`
	Description string             `json:"description,omitempty"`
	Level       LevelOfMeasurement `json:"level_of_measurement"`
}

// Feature is the validated shape of a column's data: either a NumericalFeature
// or a CategoricalFeature, discriminated by the level of measurement.
type Feature interface {
	Info() Record
	Sample() Sample
	isFeature()
}

// NumericalFeature carries a continuous or cardinal column.
type NumericalFeature struct {
	Record Record
	Values NumericalSample
}

func (f *NumericalFeature) Info() Record   { return f.Record }
func (f *NumericalFeature) Sample() Sample { return f.Values }
func (*NumericalFeature) isFeature()       {}

// CategoricalFeature carries a nominal or ordinal column.
type CategoricalFeature struct {
	Record Record
	Counts CategoricalSample
}

func (f *CategoricalFeature) Info() Record   { return f.Record }
func (f *CategoricalFeature) Sample() Sample { return f.Counts }
func (*CategoricalFeature) isFeature()       {}

// NewFeature pairs a record with a sample after checking the sample kind
// matches the record's level of measurement.
func NewFeature(record Record, sample Sample) (Feature, error) {
	switch s := sample.(type) {
	case NumericalSample:
		if !record.Level.IsNumerical() {
			return nil, core.NewInvalidFeatureError(fmt.Sprintf("numerical sample for %s column %s", record.Level, record.Key.Column))
		}
		return &NumericalFeature{Record: record, Values: s}, nil
	case CategoricalSample:
		if !record.Level.IsCategorical() {
			return nil, core.NewInvalidFeatureError(fmt.Sprintf("categorical sample for %s column %s", record.Level, record.Key.Column))
		}
		return &CategoricalFeature{Record: record, Counts: s}, nil
	default:
		return nil, core.NewInvalidFeatureError(fmt.Sprintf("unsupported sample type %T", sample))
	}
}
