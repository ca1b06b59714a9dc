package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrFileNotFound    = fmt.Errorf("%w: file", ErrNotFound)
	ErrFeatureNotFound = fmt.Errorf("%w: file or column", ErrNotFound)

	// Fetch errors
	ErrTransientFetch = errors.New("feature fetch failed")
	ErrStaleResult    = errors.New("result targets a column that is no longer current")

	// Data errors
	ErrInvalidFeature = errors.New("invalid feature payload")
	ErrNoData         = errors.New("no data available")

	// Rendering errors
	ErrRendererUnavailable = errors.New("rendering library unavailable")
	ErrSurfaceUnavailable  = errors.New("drawing surface not mounted")
)

// NewNotFoundError reports a missing file or column.
func NewNotFoundError(fileID, column string) error {
	return fmt.Errorf("%w: file %s column %s", ErrFeatureNotFound, fileID, column)
}

// NewTransientError wraps a retryable fetch failure.
func NewTransientError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransientFetch, op, err)
}

// NewInvalidFeatureError describes a payload that failed validation at the fetch boundary.
func NewInvalidFeatureError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidFeature, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransientFetch)
}

func IsRendererUnavailable(err error) bool {
	return errors.Is(err, ErrRendererUnavailable)
}

func IsStaleResult(err error) bool {
	return errors.Is(err, ErrStaleResult)
}

// UserMessage converts a failure into the inline text shown on a feature card.
func UserMessage(err error, fileID, column string) string {
	switch {
	case err == nil:
		return ""
	case IsNotFoundError(err):
		return fmt.Sprintf("File or column not found. Please check the fileId (%s) and columnName (%s).", fileID, column)
	case IsRendererUnavailable(err):
		return "The chart could not be drawn because the plotting library is unavailable."
	case errors.Is(err, ErrNoData):
		return "No data available for visualization."
	default:
		return "An error occurred while loading the feature data. Please try again."
	}
}
