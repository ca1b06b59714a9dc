package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"featurecard/domain/core"
	"featurecard/domain/dataset"
	"featurecard/ports"
)

// DataFilesDir is where uploaded files live under the media root.
const DataFilesDir = "data_files"

// MemoryRegistry is an in-process DataFileRepository, used when no database
// is configured.
type MemoryRegistry struct {
	mu    sync.RWMutex
	files map[core.FileID]*dataset.DataFile
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{files: make(map[core.FileID]*dataset.DataFile)}
}

var _ ports.DataFileRepository = (*MemoryRegistry)(nil)

func (r *MemoryRegistry) Save(_ context.Context, file *dataset.DataFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id core.FileID) (*dataset.DataFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	file, ok := r.files[id]
	if !ok {
		return nil, core.ErrFileNotFound
	}
	copied := *file
	return &copied, nil
}

func (r *MemoryRegistry) List(_ context.Context, limit, offset int) ([]*dataset.DataFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*dataset.DataFile, 0, len(r.files))
	for _, file := range r.files {
		copied := *file
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []*dataset.DataFile{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id core.FileID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return core.ErrFileNotFound
	}
	delete(r.files, id)
	return nil
}

// Discover registers every CSV or Excel file under <mediaRoot>/data_files,
// using the file name without extension as its id. It returns the number of
// files registered.
func Discover(ctx context.Context, repo ports.DataFileRepository, mediaRoot string) (int, error) {
	dir := filepath.Join(mediaRoot, DataFilesDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id := core.FileID(strings.TrimSuffix(name, filepath.Ext(name)))
		file, err := dataset.NewDataFile(id, name, filepath.Join(DataFilesDir, name))
		if err != nil {
			continue
		}
		if err := repo.Save(ctx, file); err != nil {
			return registered, err
		}
		registered++
	}
	return registered, nil
}
