package render

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"featurecard/domain/core"
	"featurecard/internal"
	apperrors "featurecard/internal/errors"
	"featurecard/ports"
)

// LoadFunc builds the renderer. It runs at most once per successful load.
type LoadFunc func() (ports.Renderer, error)

// Loader loads the renderer lazily and hands the same instance to every
// caller. Concurrent first calls share one load; a failed load is not cached,
// so the next call retries.
type Loader struct {
	load  LoadFunc
	group singleflight.Group
	ready atomic.Bool

	mu       sync.RWMutex
	renderer ports.Renderer

	logger *internal.Logger
}

var _ ports.RendererLoader = (*Loader)(nil)

// NewLoader creates a loader around load.
func NewLoader(load LoadFunc) *Loader {
	return &Loader{
		load:   load,
		logger: internal.DefaultLogger.With("Renderer"),
	}
}

// Ready reports whether the renderer has been loaded.
func (l *Loader) Ready() bool {
	return l.ready.Load()
}

// Renderer returns the loaded renderer, loading it first if needed. Failures
// wrap core.ErrRendererUnavailable.
func (l *Loader) Renderer() (ports.Renderer, error) {
	if l.ready.Load() {
		return l.current(), nil
	}

	v, err, _ := l.group.Do("renderer", func() (interface{}, error) {
		if l.ready.Load() {
			return l.current(), nil
		}
		r, err := l.safeLoad()
		if err != nil {
			l.logger.Warn("renderer load failed: %v", err)
			return nil, apperrors.RendererUnavailable(fmt.Errorf("%w: %w", core.ErrRendererUnavailable, err))
		}
		l.mu.Lock()
		l.renderer = r
		l.mu.Unlock()
		l.ready.Store(true)
		l.logger.Debug("renderer loaded")
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.Renderer), nil
}

func (l *Loader) current() ports.Renderer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.renderer
}

func (l *Loader) safeLoad() (r ports.Renderer, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("renderer load panicked: %v", p)
		}
	}()
	if l.load == nil {
		return nil, fmt.Errorf("no renderer configured")
	}
	r, err = l.load()
	if err == nil && r == nil {
		err = fmt.Errorf("renderer load returned nil")
	}
	return r, err
}

var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// Default returns the process-wide loader for the echarts renderer.
func Default() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewLoader(func() (ports.Renderer, error) {
			return NewEChartsRenderer(DefaultAssetsHost)
		})
	})
	return defaultLoader
}
