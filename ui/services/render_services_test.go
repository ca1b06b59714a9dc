package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/domain/feature"
	"featurecard/internal/featureview"
	"featurecard/internal/plotspec"
)

func numericalView(t *testing.T, stacked *feature.Stacked, state feature.ViewState) *featureview.View {
	t.Helper()
	key, err := feature.NewKey("train", "age")
	require.NoError(t, err)
	f := &feature.NumericalFeature{
		Record: feature.Record{Key: key, Level: feature.Continuous},
		Values: feature.NumericalSample{1, 2, 2, 3, 4, 5, 100},
	}
	view := featureview.DeriveView(f, stacked, state, plotspec.NewBuilder(plotspec.Viewport{}))
	return &view
}

func TestStatsMarkdown_Single(t *testing.T) {
	md := StatsMarkdown(numericalView(t, nil, feature.ViewState{}))

	lines := strings.Split(strings.TrimSpace(md), "\n")
	assert.Equal(t, "Sample size: 7", lines[0])
	assert.Equal(t, "| Stat | Value |", lines[2])
	assert.Equal(t, "| --- | ---: |", lines[3])
	assert.Contains(t, md, `| Mean | 16.71 |`)
	assert.Contains(t, md, `| Max | 100 |`)
	assert.Contains(t, md, `| 1st\_Quantile |`)
}

func TestStatsMarkdown_StackedAddsClassColumns(t *testing.T) {
	stacked := &feature.Stacked{
		Target: "target",
		Classes: []feature.ClassSample{
			{Label: "a|b", Sample: feature.NumericalSample{1, 2, 2}},
			{Label: "c", Sample: feature.NumericalSample{3, 4, 5, 100}},
		},
	}
	md := StatsMarkdown(numericalView(t, stacked, feature.ViewState{StackedWrtTarget: true}))

	assert.Contains(t, md, `| Stat | All | a\|b | c |`)
	assert.Contains(t, md, `| Max | 100 | 2 | 100 |`)
}

func TestStatsMarkdown_NilView(t *testing.T) {
	assert.Empty(t, StatsMarkdown(nil))
}

func TestRenderService_StatsHTML(t *testing.T) {
	svc, err := NewRenderService(os.DirFS("../templates"))
	require.NoError(t, err)

	html := string(svc.StatsHTML(numericalView(t, nil, feature.ViewState{})))
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "1st_Quantile")
	assert.NotContains(t, html, `\_`)
}

func TestRenderService_FeatureCard(t *testing.T) {
	svc, err := NewRenderService(os.DirFS("../templates"))
	require.NoError(t, err)

	page := svc.RenderFeatureCard(CardPage{
		Title:   "Feature card: <age>",
		Column:  "<age>",
		Message: "No data available for visualization.",
		Width:   500,
		Height:  450,
		Toggles: []Toggle{{Name: "percentage", Label: "Percentage axis", Enabled: true, URL: "/feature-card/train?column=age&percentage=1"}},
	})
	assert.Contains(t, page, "<h1>&lt;age&gt;</h1>")
	assert.Contains(t, page, `role="status">No data available for visualization.</div>`)
	assert.Contains(t, page, `data-toggle="percentage"`)
	assert.NotContains(t, page, "chart-frame\"")
}
