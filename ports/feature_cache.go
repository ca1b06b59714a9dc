package ports

import (
	"context"

	"featurecard/domain/feature"
)

// FeatureCache stores encoded feature payloads keyed by file and column.
// Get reports a miss with ok=false and a nil error.
type FeatureCache interface {
	Get(ctx context.Context, key feature.Key, kind string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key feature.Key, kind string, payload []byte) error
	Invalidate(ctx context.Context, fileID string) error
}
