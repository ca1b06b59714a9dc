package ports

import (
	"context"

	"featurecard/domain/feature"
)

// FeatureSource fetches feature data for one column. Implementations validate
// payloads at the boundary and return typed features. FetchStacked is given
// the level of measurement already known from the feature info.
//
// Errors: core.ErrFeatureNotFound (wrapped) when the file or column does not
// exist, core.ErrTransientFetch for everything else.
type FeatureSource interface {
	FetchFeature(ctx context.Context, key feature.Key) (feature.Feature, error)
	FetchStacked(ctx context.Context, key feature.Key, level feature.LevelOfMeasurement) (*feature.Stacked, error)
}
