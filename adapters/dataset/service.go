package dataset

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"featurecard/adapters/featureapi"
	"featurecard/domain/core"
	"featurecard/domain/feature"
	"featurecard/internal"
	apperrors "featurecard/internal/errors"
	"featurecard/internal/profiling"
	"featurecard/ports"
)

// Cache kinds for the two payloads.
const (
	cacheKindInfo    = "info"
	cacheKindStacked = "stacked"
)

// Service serves feature payloads computed from registered data files. It
// also implements ports.FeatureSource for in-process use.
type Service struct {
	files     ports.DataFileRepository
	cache     ports.FeatureCache
	mediaRoot string
	target    string
	profiler  *profiling.DataProfiler
	reads     singleflight.Group
	logger    *internal.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache caches encoded payloads.
func WithCache(cache ports.FeatureCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// NewService creates a feature service. target is the default target column
// for stacked data.
func NewService(files ports.DataFileRepository, mediaRoot, target string, opts ...ServiceOption) *Service {
	s := &Service{
		files:     files,
		mediaRoot: mediaRoot,
		target:    target,
		profiler:  profiling.NewDataProfiler(),
		logger:    internal.DefaultLogger.With("FeatureService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.FeatureSource = (*Service)(nil)

// Target returns the default target column.
func (s *Service) Target() string {
	return s.target
}

// FetchFeature builds the typed feature of one column.
func (s *Service) FetchFeature(ctx context.Context, key feature.Key) (feature.Feature, error) {
	table, err := s.table(ctx, key)
	if err != nil {
		return nil, err
	}
	return columnFeature(table, key)
}

// FetchStacked splits one column by the default target. The level is
// inferred from the file itself.
func (s *Service) FetchStacked(ctx context.Context, key feature.Key, _ feature.LevelOfMeasurement) (*feature.Stacked, error) {
	stacked, _, err := s.stacked(ctx, key, s.target)
	return stacked, err
}

// FeatureInfo computes the get_feature_info payload.
func (s *Service) FeatureInfo(ctx context.Context, key feature.Key) (*featureapi.FeatureInfo, error) {
	f, err := s.FetchFeature(ctx, key)
	if err != nil {
		return nil, err
	}
	info := f.Info()
	stats := s.profiler.ComputeStats(f.Sample(), info.Level)

	payload := &featureapi.FeatureInfo{
		FeatureName:        key.Column,
		FeatureDescription: info.Description,
		LevelOfMeasurement: string(info.Level),
		DescriptiveStats:   featureapi.DescriptiveStats{Stats: stats},
	}
	switch typed := f.(type) {
	case *feature.NumericalFeature:
		payload.DescriptiveStats.Histogram = typed.Values.Finite()
	case *feature.CategoricalFeature:
		payload.DescriptiveStats.ValueCounts = featureapi.ValueCountsFrom(typed.Counts)
	}
	return payload, nil
}

// FeatureInfoJSON returns the encoded feature-info payload, from cache when
// one is configured.
func (s *Service) FeatureInfoJSON(ctx context.Context, key feature.Key) ([]byte, error) {
	return s.cached(ctx, key, cacheKindInfo, func() (interface{}, error) {
		return s.FeatureInfo(ctx, key)
	})
}

// StackedData computes the get_stacked_data payload. An empty target falls
// back to the default target column.
func (s *Service) StackedData(ctx context.Context, key feature.Key, target string) (*featureapi.StackedData, error) {
	stacked, level, err := s.stacked(ctx, key, target)
	if err != nil {
		return nil, err
	}
	payload := featureapi.NewStackedData(stacked, level)
	return &payload, nil
}

// StackedDataJSON returns the encoded stacked payload.
func (s *Service) StackedDataJSON(ctx context.Context, key feature.Key, target string) ([]byte, error) {
	if target == "" {
		target = s.target
	}
	return s.cached(ctx, key, cacheKindStacked+":"+target, func() (interface{}, error) {
		return s.StackedData(ctx, key, target)
	})
}

func (s *Service) cached(ctx context.Context, key feature.Key, kind string, compute func() (interface{}, error)) ([]byte, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, key, kind)
		if err != nil {
			s.logger.Warn("cache read %s %s: %v", kind, key, err)
		} else if ok {
			return payload, nil
		}
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode payload")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, kind, payload); err != nil {
			s.logger.Warn("cache write %s %s: %v", kind, key, err)
		}
	}
	return payload, nil
}

func (s *Service) stacked(ctx context.Context, key feature.Key, target string) (*feature.Stacked, feature.LevelOfMeasurement, error) {
	if target == "" {
		target = s.target
	}
	table, err := s.table(ctx, key)
	if err != nil {
		return nil, "", err
	}
	cells, ok := table.Column(key.Column)
	if !ok {
		return nil, "", core.NewNotFoundError(key.FileID.String(), key.Column)
	}
	targets, ok := table.Column(target)
	if !ok {
		return nil, "", core.NewNotFoundError(key.FileID.String(), target)
	}
	level := InferLevel(cells)
	return SplitByTarget(cells, targets, target, level), level, nil
}

// table reads the data file behind a key. Concurrent reads of the same file
// share one read, which is detached from any single caller's cancellation.
func (s *Service) table(ctx context.Context, key feature.Key) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := key.FileID
	shared := context.WithoutCancel(ctx)
	result, err, _ := s.reads.Do(id.String(), func() (interface{}, error) {
		file, err := s.files.Get(shared, id)
		if err != nil {
			if core.IsNotFoundError(err) {
				return nil, err
			}
			return nil, apperrors.DatabaseError("failed to resolve data file", err)
		}
		table, err := NewDataReader(file, s.mediaRoot).ReadTable()
		if err != nil {
			if core.IsNotFoundError(err) {
				s.logger.Error("data file %s missing on disk: %v", id, err)
				return nil, err
			}
			return nil, apperrors.Wrapf(err, "error reading file %s", id)
		}
		return table, nil
	})
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, core.NewNotFoundError(id.String(), key.Column)
		}
		return nil, err
	}
	return result.(*Table), nil
}

func columnFeature(table *Table, key feature.Key) (feature.Feature, error) {
	cells, ok := table.Column(key.Column)
	if !ok {
		return nil, core.NewNotFoundError(key.FileID.String(), key.Column)
	}
	level := InferLevel(cells)
	record := feature.Record{Key: key, Level: level}
	if level.IsNumerical() {
		return feature.NewFeature(record, NumericOrNaN(cells))
	}
	return feature.NewFeature(record, feature.CategoricalFromLabels(cells))
}

// SplitByTarget groups the cells of a column by the target value of each
// row, in discovery order. Rows with a missing target are skipped.
func SplitByTarget(cells, targets []string, target string, level feature.LevelOfMeasurement) *feature.Stacked {
	stacked := &feature.Stacked{Target: target}
	index := make(map[string]int)
	var groups [][]string
	for i, cell := range cells {
		if i >= len(targets) || feature.IsMissingLabel(targets[i]) {
			continue
		}
		label := strings.TrimSpace(targets[i])
		idx, ok := index[label]
		if !ok {
			idx = len(groups)
			index[label] = idx
			groups = append(groups, nil)
			stacked.Classes = append(stacked.Classes, feature.ClassSample{Label: label})
		}
		groups[idx] = append(groups[idx], cell)
	}

	for i, group := range groups {
		if level.IsNumerical() {
			stacked.Classes[i].Sample = NumericOrNaN(group)
		} else {
			stacked.Classes[i].Sample = feature.CategoricalFromLabels(group)
		}
	}
	return stacked
}
