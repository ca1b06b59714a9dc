package ports

import (
	"context"

	"featurecard/domain/core"
	"featurecard/domain/dataset"
)

// DataFileRepository resolves uploaded data files by id.
type DataFileRepository interface {
	Save(ctx context.Context, file *dataset.DataFile) error
	Get(ctx context.Context, id core.FileID) (*dataset.DataFile, error)
	List(ctx context.Context, limit, offset int) ([]*dataset.DataFile, error)
	Delete(ctx context.Context, id core.FileID) error
}
