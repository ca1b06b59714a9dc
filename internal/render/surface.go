package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"featurecard/domain/core"
	"featurecard/ports"
)

// BufferSurface keeps drawn output in memory, one buffer per mounted div.
type BufferSurface struct {
	mu      sync.Mutex
	buffers map[string]*bytes.Buffer
}

var _ ports.Surface = (*BufferSurface)(nil)

// NewBufferSurface creates a surface with no divs mounted.
func NewBufferSurface() *BufferSurface {
	return &BufferSurface{buffers: make(map[string]*bytes.Buffer)}
}

// Mount makes a div available for drawing.
func (s *BufferSurface) Mount(divID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buffers[divID]; !ok {
		s.buffers[divID] = &bytes.Buffer{}
	}
}

// Unmount removes a div and discards its content.
func (s *BufferSurface) Unmount(divID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, divID)
}

// Open replaces the content of a mounted div.
func (s *BufferSurface) Open(divID string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[divID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSurfaceUnavailable, divID)
	}
	buf.Reset()
	return &lockedWriter{mu: &s.mu, w: buf}, nil
}

// Contents returns what was last drawn into a div.
func (s *BufferSurface) Contents(divID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[divID]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), buf.Bytes()...), true
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (l *lockedWriter) Close() error { return nil }

// DirSurface writes each div to <dir>/<divID>.html. The directory must exist.
type DirSurface struct {
	dir string
}

var _ ports.Surface = (*DirSurface)(nil)

// NewDirSurface creates a surface rooted at dir.
func NewDirSurface(dir string) *DirSurface {
	return &DirSurface{dir: dir}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Path returns the file a div is written to.
func (s *DirSurface) Path(divID string) string {
	return filepath.Join(s.dir, unsafeFileChars.ReplaceAllString(divID, "_")+".html")
}

func (s *DirSurface) Open(divID string) (io.WriteCloser, error) {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: directory %s", core.ErrSurfaceUnavailable, s.dir)
	}
	return os.Create(s.Path(divID))
}

// WriterSurface draws every div into one writer, such as an HTTP response.
type WriterSurface struct {
	w io.Writer
}

// NewWriterSurface wraps w.
func NewWriterSurface(w io.Writer) *WriterSurface {
	return &WriterSurface{w: w}
}

func (s *WriterSurface) Open(string) (io.WriteCloser, error) {
	if s.w == nil {
		return nil, core.ErrSurfaceUnavailable
	}
	return nopCloser{s.w}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
