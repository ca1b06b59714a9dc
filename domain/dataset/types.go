package dataset

import (
	"path/filepath"
	"strings"
	"time"

	"featurecard/domain/core"
)

// Format is the on-disk format of an uploaded data file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx", ".xlsm":
		return FormatXLSX, true
	default:
		return "", false
	}
}

// DataFile is an uploaded dataset, resolved by its file id.
type DataFile struct {
	ID               core.FileID `json:"id" db:"id"`
	OriginalFilename string      `json:"original_filename" db:"original_filename"`
	// FilePath is relative to the media root.
	FilePath  string    `json:"file_path" db:"file_path"`
	Format    Format    `json:"format" db:"format"`
	Sheet     string    `json:"sheet,omitempty" db:"sheet"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewDataFile registers a file stored at path under the media root.
func NewDataFile(id core.FileID, originalFilename, path string) (*DataFile, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, core.NewInvalidFeatureError("unsupported data file format: " + filepath.Ext(path))
	}
	return &DataFile{
		ID:               id,
		OriginalFilename: originalFilename,
		FilePath:         path,
		Format:           format,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Resolve joins the file path onto the media root.
func (f *DataFile) Resolve(mediaRoot string) string {
	if filepath.IsAbs(f.FilePath) || mediaRoot == "" {
		return f.FilePath
	}
	return filepath.Join(mediaRoot, f.FilePath)
}
