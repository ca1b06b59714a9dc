package featureview

import (
	"context"
	"errors"
	"sync"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	"featurecard/internal"
	"featurecard/internal/plotspec"
	"featurecard/ports"
)

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("feature view closed")

// Config wires a controller to its collaborators.
type Config struct {
	Source    ports.FeatureSource
	Renderers ports.RendererLoader
	Surface   ports.Surface
	Viewport  plotspec.Viewport
	// DivID names the drawing surface; defaults to "feature-card-<card id>".
	DivID string
}

// Controller owns the state of one feature card. Every state change rebuilds
// the view under the controller's lock, so rebuilds never overlap and always
// see the latest toggles. Fetches run outside the lock and are tagged with
// the column generation current when they were issued; results for an older
// generation are dropped.
type Controller struct {
	id        core.CardID
	divID     string
	source    ports.FeatureSource
	renderers ports.RendererLoader
	surface   ports.Surface
	logger    *internal.Logger

	mu           sync.Mutex
	builder      *plotspec.Builder
	closed       bool
	generation   uint64
	columnCtx    context.Context
	cancelColumn context.CancelFunc
	phase        Phase
	key          feature.Key
	state        feature.ViewState
	feature      feature.Feature
	stacked      *feature.Stacked
	stackedFetch bool
	view         *View
	err          error
	renderErr    error
	rendered     bool
}

// NewController creates a controller with no column open.
func NewController(cfg Config) *Controller {
	id := core.NewCardID()
	divID := cfg.DivID
	if divID == "" {
		divID = "feature-card-" + id.String()
	}
	columnCtx, cancel := context.WithCancel(context.Background())
	return &Controller{
		id:           id,
		divID:        divID,
		source:       cfg.Source,
		renderers:    cfg.Renderers,
		surface:      cfg.Surface,
		builder:      plotspec.NewBuilder(cfg.Viewport),
		logger:       internal.DefaultLogger.With("FeatureView"),
		columnCtx:    columnCtx,
		cancelColumn: cancel,
		phase:        PhaseLoading,
	}
}

// ID returns the card id.
func (c *Controller) ID() core.CardID { return c.id }

// DivID returns the drawing surface id.
func (c *Controller) DivID() string { return c.divID }

// Open starts inspecting a column with the given toggles. It discards the
// previous column's state and cached stacked data, fetches feature info and,
// when stacking is requested, stacked data. A fetch failure is stored in the
// snapshot and also returned.
func (c *Controller) Open(ctx context.Context, key feature.Key, initial feature.ViewState) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	gen := c.resetLocked(key, initial)
	columnCtx := c.columnCtx
	c.mu.Unlock()

	c.logger.Debug("open %s (generation %d)", key, gen)
	f, err := fetch(ctx, columnCtx, func(ctx context.Context) (feature.Feature, error) {
		return c.source.FetchFeature(ctx, key)
	})

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return core.ErrStaleResult
	}
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return err
	}
	c.feature = f
	c.state = c.state.Normalize(f.Info().Level)
	if !c.state.StackedWrtTarget {
		c.phase = PhaseReady
		c.rebuildLocked()
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseStackedLoading
	c.stackedFetch = true
	c.rebuildLocked()
	c.mu.Unlock()

	return c.loadStacked(ctx, gen, key, f.Info().Level, columnCtx)
}

// SwitchColumn opens another column of the same file with fresh toggles.
func (c *Controller) SwitchColumn(ctx context.Context, column string) error {
	c.mu.Lock()
	fileID := c.key.FileID
	c.mu.Unlock()

	key, err := feature.NewKey(fileID.String(), column)
	if err != nil {
		return err
	}
	return c.Open(ctx, key, feature.ViewState{})
}

// SetPercentageAxis toggles the Y unit between counts and percent.
func (c *Controller) SetPercentageAxis(on bool) error {
	return c.update(func(s *feature.ViewState) { s.UsePercentageAxis = on })
}

// SetOutlierCleaning toggles the 5th-95th percentile trim.
func (c *Controller) SetOutlierCleaning(on bool) error {
	return c.update(func(s *feature.ViewState) { s.OutlierCleaningEnabled = on })
}

// SetSparsityCleaning toggles removal of a dominant mode. It stays off for
// categorical columns.
func (c *Controller) SetSparsityCleaning(on bool) error {
	return c.update(func(s *feature.ViewState) { s.SparsityCleaningEnabled = on })
}

// SetFullScreen toggles full-screen sizing.
func (c *Controller) SetFullScreen(on bool) error {
	return c.update(func(s *feature.ViewState) { s.IsFullScreen = on })
}

// Resize changes the viewport the plot is sized against.
func (c *Controller) Resize(viewport plotspec.Viewport) error {
	c.mu.Lock()
	c.builder = plotspec.NewBuilder(viewport)
	c.mu.Unlock()
	return c.update(func(*feature.ViewState) {})
}

// SetStacked toggles per-target-class plotting. Stacked data is fetched on
// first use per column and cached. If the fetch fails the toggle reverts to
// off, the error is surfaced and the last non-stacked plot stays; toggling
// again retries.
func (c *Controller) SetStacked(ctx context.Context, on bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state.StackedWrtTarget = on
	if c.feature == nil {
		// applied once the feature arrives
		c.mu.Unlock()
		return nil
	}
	if !on || c.stacked != nil {
		c.readyLocked()
		c.rebuildLocked()
		c.mu.Unlock()
		return nil
	}
	if c.stackedFetch {
		// the first fetch is still running and will be applied on arrival
		c.phase = PhaseStackedLoading
		c.err = nil
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseStackedLoading
	c.err = nil
	c.stackedFetch = true
	gen, key, level, columnCtx := c.generation, c.key, c.feature.Info().Level, c.columnCtx
	c.mu.Unlock()

	return c.loadStacked(ctx, gen, key, level, columnCtx)
}

// loadStacked fetches stacked data for generation gen and applies it. The
// caller marks the fetch as in flight.
func (c *Controller) loadStacked(ctx context.Context, gen uint64, key feature.Key, level feature.LevelOfMeasurement, columnCtx context.Context) error {
	stacked, err := fetch(ctx, columnCtx, func(ctx context.Context) (*feature.Stacked, error) {
		return c.source.FetchStacked(ctx, key, level)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug("dropping stacked data for %s: column changed", key)
		return core.ErrStaleResult
	}
	c.stackedFetch = false

	if err != nil {
		c.logger.Warn("stacked fetch for %s failed: %v", key, err)
		if !c.state.StackedWrtTarget {
			// stacking was turned off meanwhile
			return err
		}
		c.state.StackedWrtTarget = false
		c.phase = PhaseError
		c.err = err
		c.rebuildLocked()
		return err
	}

	c.stacked = stacked
	c.readyLocked()
	c.rebuildLocked()
	return nil
}

// update applies a toggle change and rebuilds when the feature is loaded.
func (c *Controller) update(apply func(*feature.ViewState)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	apply(&c.state)
	if c.feature == nil {
		return nil
	}
	c.state = c.state.Normalize(c.feature.Info().Level)
	if c.phase == PhaseError {
		c.readyLocked()
	}
	c.rebuildLocked()
	return nil
}

// Close discards all state. In-flight fetches are cancelled and their results
// dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.cancelColumn()
	c.feature = nil
	c.stacked = nil
	c.view = nil
}

func (c *Controller) resetLocked(key feature.Key, initial feature.ViewState) uint64 {
	c.generation++
	c.cancelColumn()
	c.columnCtx, c.cancelColumn = context.WithCancel(context.Background())
	c.phase = PhaseLoading
	c.key = key
	c.state = initial
	c.feature = nil
	c.stacked = nil
	c.stackedFetch = false
	c.view = nil
	c.err = nil
	c.renderErr = nil
	c.rendered = false
	return c.generation
}

func (c *Controller) failLocked(err error) {
	c.phase = PhaseError
	c.err = err
	if core.IsNotFoundError(err) {
		c.logger.Info("%s: %v", c.key, err)
	} else {
		c.logger.Warn("%s: %v", c.key, err)
	}
}

// readyLocked leaves the error or loading phase. A stacked fetch still in
// flight keeps the card in StackedLoading.
func (c *Controller) readyLocked() {
	if c.stackedFetch && c.state.StackedWrtTarget {
		c.phase = PhaseStackedLoading
		return
	}
	c.phase = PhaseReady
	c.err = nil
}

func (c *Controller) rebuildLocked() {
	stacked := c.stacked
	if !c.state.StackedWrtTarget {
		stacked = nil
	}
	view := DeriveView(c.feature, stacked, c.state, c.builder)
	c.view = &view
	c.drawLocked()
}

// drawLocked hands the current plot to the renderer. An empty plot, an
// unavailable renderer or an unmounted surface skip drawing without touching
// the computed stats.
func (c *Controller) drawLocked() {
	c.rendered = false
	c.renderErr = nil
	if c.view == nil || c.view.NoData {
		return
	}
	if c.renderers == nil || c.surface == nil {
		return
	}

	renderer, err := c.renderers.Renderer()
	if err != nil {
		c.renderErr = err
		return
	}
	w, err := c.surface.Open(c.divID)
	if err != nil {
		c.logger.Debug("surface %s not ready: %v", c.divID, err)
		c.renderErr = err
		return
	}
	defer w.Close()

	if err := renderer.Render(w, c.divID, c.view.Plot); err != nil {
		c.logger.Warn("render %s failed: %v", c.divID, err)
		c.renderErr = err
		return
	}
	c.rendered = true
}

// fetch runs fn with a context that is cancelled when either the caller's
// context or the column's context ends.
func fetch[T any](ctx, columnCtx context.Context, fn func(context.Context) (T, error)) (T, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(columnCtx, cancel)
	defer stop()
	return fn(fetchCtx)
}
