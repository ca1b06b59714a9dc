package featureview

import (
	"errors"

	"featurecard/domain/core"
	"featurecard/domain/feature"
)

// Snapshot is a consistent copy of a controller's visible state.
type Snapshot struct {
	CardID core.CardID       `json:"card_id"`
	DivID  string            `json:"div_id"`
	Phase  Phase             `json:"phase"`
	Key    feature.Key       `json:"key"`
	State  feature.ViewState `json:"state"`
	// View is the last good view; nil until the feature has loaded.
	View *View `json:"view,omitempty"`
	// Err is the fetch failure shown inline, if any.
	Err error `json:"-"`
	// RenderErr explains why the plot was not drawn.
	RenderErr error `json:"-"`
	Rendered  bool  `json:"rendered"`
	// Message is the inline text for Err, RenderErr or an empty plot.
	Message string `json:"message,omitempty"`
	// SparsityAvailable tells whether the sparsity toggle can be used.
	SparsityAvailable bool `json:"sparsity_available"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		CardID:    c.id,
		DivID:     c.divID,
		Phase:     c.phase,
		Key:       c.key,
		State:     c.state,
		Err:       c.err,
		RenderErr: c.renderErr,
		Rendered:  c.rendered,
	}
	if c.view != nil {
		view := *c.view
		snap.View = &view
	}
	if c.feature != nil {
		snap.SparsityAvailable = feature.SparsityCleaningAvailable(c.feature.Info().Level)
	}
	snap.Message = message(snap)
	return snap
}

func message(s Snapshot) string {
	fileID, column := s.Key.FileID.String(), s.Key.Column
	switch {
	case s.Err != nil:
		return core.UserMessage(s.Err, fileID, column)
	case s.View != nil && s.View.NoData:
		return core.UserMessage(core.ErrNoData, fileID, column)
	case s.RenderErr != nil && core.IsRendererUnavailable(s.RenderErr):
		return core.UserMessage(s.RenderErr, fileID, column)
	case s.RenderErr != nil && !errors.Is(s.RenderErr, core.ErrSurfaceUnavailable):
		return core.UserMessage(s.RenderErr, fileID, column)
	default:
		return ""
	}
}
