package render

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	"featurecard/domain/plot"
	apperrors "featurecard/internal/errors"
	"featurecard/internal/plotspec"
	"featurecard/ports"
)

func numericalSpec() plot.Spec {
	return plotspec.NewBuilder(plotspec.DefaultViewport).Build(plotspec.Input{
		FeatureName: "age",
		Level:       feature.Continuous,
		Sample:      feature.NumericalSample{1, 2, 2, 3, 4, 5, 100},
	})
}

func TestEChartsRenderer_RendersBarAndBox(t *testing.T) {
	r, err := NewEChartsRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "card-1", numericalSpec()))

	html := buf.String()
	assert.Contains(t, html, `id="card_1"`)
	assert.Contains(t, html, `id="card_1_box"`)
	assert.Contains(t, html, "Distribution of age")
}

func TestEChartsRenderer_EmptySpecDrawsNothing(t *testing.T) {
	r, err := NewEChartsRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "card", plot.Spec{}))
	assert.Zero(t, buf.Len())
}

func TestNewEChartsRenderer_RejectsBadHost(t *testing.T) {
	_, err := NewEChartsRenderer("ftp://assets.example.com/")
	assert.Error(t, err)
}

func TestChartID(t *testing.T) {
	assert.Equal(t, "card_f1_age_2", ChartID("card-f1:age.2"))
}

func TestBarGaps(t *testing.T) {
	overlay := barGaps(plot.Layout{BarMode: plot.BarModeOverlay}, plot.KindHistogram)
	assert.Equal(t, "0%", overlay.BarCategoryGap)

	grouped := barGaps(plot.Layout{BarMode: plot.BarModeGroup, BarGap: 0.05, BarGroupGap: 0.1}, plot.KindBar)
	assert.Equal(t, "5%", grouped.BarCategoryGap)
	assert.Equal(t, "10%", grouped.BarGap)
}

type stubRenderer struct{}

func (stubRenderer) Render(w io.Writer, divID string, spec plot.Spec) error {
	_, err := io.WriteString(w, divID)
	return err
}

func TestLoader_LoadsOnceForConcurrentCallers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := NewLoader(func() (ports.Renderer, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return stubRenderer{}, nil
	})
	assert.False(t, loader.Ready())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := loader.Renderer()
			assert.NoError(t, err)
			assert.NotNil(t, r)
		}()
	}
	close(release)
	wg.Wait()

	_, err := loader.Renderer()
	require.NoError(t, err)
	assert.True(t, loader.Ready())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	attempts := 0
	loader := NewLoader(func() (ports.Renderer, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("script blocked")
		}
		return stubRenderer{}, nil
	})

	_, err := loader.Renderer()
	require.Error(t, err)
	assert.True(t, core.IsRendererUnavailable(err))
	assert.Equal(t, apperrors.CodeRendererUnavailable, apperrors.GetCode(err))
	assert.False(t, loader.Ready())

	r, err := loader.Renderer()
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.True(t, loader.Ready())
	assert.Equal(t, 2, attempts)
}

func TestLoader_PanicBecomesUnavailable(t *testing.T) {
	loader := NewLoader(func() (ports.Renderer, error) { panic("boom") })
	_, err := loader.Renderer()
	assert.True(t, core.IsRendererUnavailable(err))
}

func TestDefaultLoaderIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	r, err := Default().Renderer()
	require.NoError(t, err)
	assert.IsType(t, &EChartsRenderer{}, r)
}

func TestBufferSurface(t *testing.T) {
	s := NewBufferSurface()
	_, err := s.Open("card")
	assert.ErrorIs(t, err, core.ErrSurfaceUnavailable)

	s.Mount("card")
	w, err := s.Open("card")
	require.NoError(t, err)
	_, err = io.WriteString(w, "drawn")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, ok := s.Contents("card")
	require.True(t, ok)
	assert.Equal(t, "drawn", string(got))

	s.Unmount("card")
	_, ok = s.Contents("card")
	assert.False(t, ok)
}

func TestDirSurface(t *testing.T) {
	missing := NewDirSurface(filepath.Join(t.TempDir(), "missing"))
	_, err := missing.Open("card")
	assert.ErrorIs(t, err, core.ErrSurfaceUnavailable)

	dir := t.TempDir()
	s := NewDirSurface(dir)
	w, err := s.Open("f1/age")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, filepath.Join(dir, "f1_age.html"), s.Path("f1/age"))
	assert.FileExists(t, s.Path("f1/age"))
}
