package ports

import (
	"io"

	"featurecard/domain/plot"
)

// Renderer draws a plot spec into a drawing surface identified by divID.
type Renderer interface {
	Render(w io.Writer, divID string, spec plot.Spec) error
}

// RendererLoader hands out the process-wide renderer, loading it on first use.
type RendererLoader interface {
	Renderer() (Renderer, error)
	Ready() bool
}

// Surface resolves drawing surfaces by id. Open fails with
// core.ErrSurfaceUnavailable when the surface is not mounted.
type Surface interface {
	Open(divID string) (io.WriteCloser, error)
}
