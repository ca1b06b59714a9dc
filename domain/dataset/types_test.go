package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		ok     bool
	}{
		{"train.csv", FormatCSV, true},
		{"Train.CSV", FormatCSV, true},
		{"book.xlsx", FormatXLSX, true},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, ok := FormatFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestDataFileResolve(t *testing.T) {
	file, err := NewDataFile("f1", "train.csv", "uploads/train.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, file.Format)
	assert.Equal(t, filepath.Join("/media", "uploads/train.csv"), file.Resolve("/media"))
	assert.Equal(t, "uploads/train.csv", file.Resolve(""))

	_, err = NewDataFile("f2", "notes.txt", "notes.txt")
	assert.Error(t, err)
}
