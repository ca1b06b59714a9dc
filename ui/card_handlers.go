package ui

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	"featurecard/internal/featureview"
	"featurecard/internal/plotspec"
	"featurecard/internal/render"
	"featurecard/ui/services"
)

const htmlContentType = "text/html; charset=utf-8"

// Query parameters of the card page, one per view toggle.
const (
	paramColumn     = "column"
	paramPercentage = "percentage"
	paramOutliers   = "outliers"
	paramSparsity   = "sparsity"
	paramStacked    = "stacked"
	paramFullScreen = "fullscreen"
	paramWidth      = "width"
	paramHeight     = "height"
)

// cardRequest is a parsed card page request.
type cardRequest struct {
	Key      feature.Key
	State    feature.ViewState
	Viewport plotspec.Viewport
}

// card is one request-scoped feature view and what it drew.
type card struct {
	ctrl    *featureview.Controller
	surface *render.BufferSurface
	snap    featureview.Snapshot
}

func (c *card) chart() ([]byte, bool) {
	if !c.snap.Rendered {
		return nil, false
	}
	return c.surface.Contents(c.ctrl.DivID())
}

func (s *Server) parseCardRequest(c *gin.Context) (cardRequest, error) {
	key, err := feature.NewKey(c.Param("fileId"), c.Query(paramColumn))
	if err != nil {
		return cardRequest{}, err
	}
	viewport := s.viewport
	if w, err := strconv.Atoi(c.Query(paramWidth)); err == nil && w > 0 {
		viewport.Width = w
	}
	if h, err := strconv.Atoi(c.Query(paramHeight)); err == nil && h > 0 {
		viewport.Height = h
	}
	return cardRequest{
		Key: key,
		State: feature.ViewState{
			UsePercentageAxis:       queryBool(c, paramPercentage),
			OutlierCleaningEnabled:  queryBool(c, paramOutliers),
			SparsityCleaningEnabled: queryBool(c, paramSparsity),
			StackedWrtTarget:        queryBool(c, paramStacked),
			IsFullScreen:            queryBool(c, paramFullScreen),
		},
		Viewport: viewport,
	}, nil
}

func queryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "t", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// openCard runs a feature view for one request. The caller closes it.
func (s *Server) openCard(ctx context.Context, req cardRequest) *card {
	surface := render.NewBufferSurface()
	ctrl := featureview.NewController(featureview.Config{
		Source:    s.source,
		Renderers: s.renderers,
		Surface:   surface,
		Viewport:  req.Viewport,
		DivID:     cardDivID(req.Key),
	})
	surface.Mount(ctrl.DivID())

	if err := ctrl.Open(ctx, req.Key, req.State); err != nil && !core.IsNotFoundError(err) {
		s.logger.Debug("card %s: %v", req.Key, err)
	}
	cd := &card{ctrl: ctrl, surface: surface, snap: ctrl.Snapshot()}
	if chart, ok := cd.chart(); ok {
		s.archiveChart(ctrl.DivID(), chart)
	}
	return cd
}

// archiveChart copies a drawn chart to the configured output surface.
func (s *Server) archiveChart(divID string, chart []byte) {
	if s.archive == nil {
		return
	}
	w, err := s.archive.Open(divID)
	if err != nil {
		s.logger.Debug("archive %s: %v", divID, err)
		return
	}
	defer w.Close()
	if _, err := w.Write(chart); err != nil {
		s.logger.Warn("archive %s: %v", divID, err)
	}
}

// handleCardPage serves the feature card: toggles, inline message, chart
// frame and stats panel.
func (s *Server) handleCardPage(c *gin.Context) {
	req, err := s.parseCardRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cd := s.openCard(c.Request.Context(), req)
	defer cd.ctrl.Close()

	page := s.cardPage(c, req, cd)
	c.Data(cardStatus(cd.snap), htmlContentType, []byte(s.renderService.RenderFeatureCard(page)))
}

// handleCardChart serves the chart HTML drawn for the card page.
func (s *Server) handleCardChart(c *gin.Context) {
	req, err := s.parseCardRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cd := s.openCard(c.Request.Context(), req)
	defer cd.ctrl.Close()

	if chart, ok := cd.chart(); ok {
		c.Data(http.StatusOK, htmlContentType, chart)
		return
	}
	status := cardStatus(cd.snap)
	if status == http.StatusOK && core.IsRendererUnavailable(cd.snap.RenderErr) {
		status = http.StatusServiceUnavailable
	}
	body := fmt.Sprintf(`<p role="status">%s</p>`, html.EscapeString(cd.snap.Message))
	c.Data(status, htmlContentType, []byte(body))
}

// handlePlotSpec serves the plot spec JSON of a card.
func (s *Server) handlePlotSpec(c *gin.Context) {
	req, err := s.parseCardRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cd := s.openCard(c.Request.Context(), req)
	defer cd.ctrl.Close()

	if cd.snap.View == nil {
		c.JSON(cardStatus(cd.snap), gin.H{"error": cd.snap.Message})
		return
	}
	payload, err := plotspec.Encode(cd.snap.View.Plot)
	if err != nil {
		s.logger.Warn("encode plot spec for %s: %v", req.Key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode plot spec"})
		return
	}
	if cd.snap.Message != "" {
		c.Header("X-Feature-Card-Message", cd.snap.Message)
	}
	c.Data(http.StatusOK, jsonContentType, payload)
}

// cardStatus is 404 for a missing file or column, 500 when nothing could be
// loaded and 200 otherwise, inline messages included.
func cardStatus(snap featureview.Snapshot) int {
	switch {
	case snap.Err == nil:
		return http.StatusOK
	case core.IsNotFoundError(snap.Err):
		return http.StatusNotFound
	case snap.View == nil:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (s *Server) cardPage(c *gin.Context, req cardRequest, cd *card) services.CardPage {
	snap := cd.snap
	page := services.CardPage{
		Title:      "Feature card: " + req.Key.Column,
		DivID:      cd.ctrl.DivID() + "-card",
		Column:     req.Key.Column,
		Phase:      snap.Phase.String(),
		Message:    snap.Message,
		IsError:    snap.Err != nil || snap.RenderErr != nil,
		FullScreen: snap.State.IsFullScreen,
		Width:      req.Viewport.Width / 2,
		Height:     req.Viewport.Height / 2,
	}
	if snap.View != nil {
		layout := snap.View.Plot.Layout
		page.Level = string(snap.View.Record.Level)
		page.Description = snap.View.Record.Description
		page.StatsHTML = s.renderService.StatsHTML(snap.View)
		page.Width = layout.Width + 48
		page.Height = layout.Height + layout.Height/2 + 40
	}
	if snap.Rendered {
		page.HasChart = true
		page.ChartURL = cardURL(c, "/chart", snap.State)
	}
	page.Toggles = toggles(c, snap)
	return page
}

// toggles builds one link per toggle that flips it and keeps the others.
func toggles(c *gin.Context, snap featureview.Snapshot) []services.Toggle {
	state := snap.State
	flip := func(apply func(*feature.ViewState)) string {
		next := state
		apply(&next)
		return cardURL(c, "", next)
	}
	return []services.Toggle{
		{
			Name: paramPercentage, Label: "Percentage axis", On: state.UsePercentageAxis, Enabled: true,
			URL: flip(func(s *feature.ViewState) { s.UsePercentageAxis = !s.UsePercentageAxis }),
		},
		{
			Name: paramOutliers, Label: "Remove outliers", On: state.OutlierCleaningEnabled, Enabled: true,
			URL: flip(func(s *feature.ViewState) { s.OutlierCleaningEnabled = !s.OutlierCleaningEnabled }),
		},
		{
			Name: paramSparsity, Label: "Remove dominant value", On: state.SparsityCleaningEnabled, Enabled: snap.SparsityAvailable,
			URL: flip(func(s *feature.ViewState) { s.SparsityCleaningEnabled = !s.SparsityCleaningEnabled }),
		},
		{
			Name: paramStacked, Label: "Stack by target", On: state.StackedWrtTarget, Enabled: true,
			URL: flip(func(s *feature.ViewState) { s.StackedWrtTarget = !s.StackedWrtTarget }),
		},
		{
			Name: paramFullScreen, Label: "Full screen", On: state.IsFullScreen, Enabled: true,
			URL: flip(func(s *feature.ViewState) { s.IsFullScreen = !s.IsFullScreen }),
		},
	}
}

// cardURL is the card page path (plus suffix) for a state, carrying over the
// column and any explicit viewport size.
func cardURL(c *gin.Context, suffix string, state feature.ViewState) string {
	q := url.Values{}
	q.Set(paramColumn, c.Query(paramColumn))
	setBool := func(name string, on bool) {
		if on {
			q.Set(name, "1")
		}
	}
	setBool(paramPercentage, state.UsePercentageAxis)
	setBool(paramOutliers, state.OutlierCleaningEnabled)
	setBool(paramSparsity, state.SparsityCleaningEnabled)
	setBool(paramStacked, state.StackedWrtTarget)
	setBool(paramFullScreen, state.IsFullScreen)
	for _, name := range []string{paramWidth, paramHeight} {
		if v := c.Query(name); v != "" {
			q.Set(name, v)
		}
	}
	return "/feature-card/" + url.PathEscape(c.Param("fileId")) + suffix + "?" + q.Encode()
}

// cardDivID names the drawing surface of a card after its column.
func cardDivID(key feature.Key) string {
	return "feature-card-" + key.FileID.String() + "-" + key.Column
}
