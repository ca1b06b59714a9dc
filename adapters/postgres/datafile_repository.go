package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"featurecard/domain/core"
	"featurecard/domain/dataset"
	"featurecard/ports"

	"github.com/jmoiron/sqlx"
)

const dataFileColumns = `id, original_filename, file_path, format, COALESCE(sheet, '') AS sheet, created_at`

// dataFileRepository implements the DataFileRepository interface
type dataFileRepository struct {
	db *sqlx.DB
}

// NewDataFileRepository creates a new data file repository
func NewDataFileRepository(db *sqlx.DB) ports.DataFileRepository {
	return &dataFileRepository{db: db}
}

// Save inserts a data file, replacing the row when the id already exists
func (r *dataFileRepository) Save(ctx context.Context, file *dataset.DataFile) error {
	query := `INSERT INTO data_files (id, original_filename, file_path, format, sheet, created_at)
	VALUES (:id, :original_filename, :file_path, :format, :sheet, :created_at)
	ON CONFLICT (id) DO UPDATE SET
		original_filename = EXCLUDED.original_filename,
		file_path = EXCLUDED.file_path,
		format = EXCLUDED.format,
		sheet = EXCLUDED.sheet`

	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("failed to save data file: %w", err)
	}
	return nil
}

// Get retrieves a data file by its ID
func (r *dataFileRepository) Get(ctx context.Context, id core.FileID) (*dataset.DataFile, error) {
	var file dataset.DataFile
	err := r.db.GetContext(ctx, &file, `SELECT `+dataFileColumns+` FROM data_files WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, id)
		}
		return nil, fmt.Errorf("failed to get data file: %w", err)
	}
	return &file, nil
}

// List returns data files, newest first
func (r *dataFileRepository) List(ctx context.Context, limit, offset int) ([]*dataset.DataFile, error) {
	if limit <= 0 {
		limit = 100
	}
	files := []*dataset.DataFile{}
	query := `SELECT ` + dataFileColumns + ` FROM data_files ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &files, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list data files: %w", err)
	}
	return files, nil
}

// Delete removes a data file
func (r *dataFileRepository) Delete(ctx context.Context, id core.FileID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM data_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete data file: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", core.ErrFileNotFound, id)
	}
	return nil
}
