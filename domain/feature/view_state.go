package feature

// ViewState holds the toggles of one open feature view. It is never persisted.
type ViewState struct {
	UsePercentageAxis       bool `json:"use_percentage_axis"`
	OutlierCleaningEnabled  bool `json:"outlier_cleaning_enabled"`
	SparsityCleaningEnabled bool `json:"sparsity_cleaning_enabled"`
	StackedWrtTarget        bool `json:"stacked_wrt_target"`
	IsFullScreen            bool `json:"is_full_screen"`
}

// Normalize forces toggles that cannot apply to the given level off.
// Sparsity cleaning is disabled for categorical columns.
func (s ViewState) Normalize(level LevelOfMeasurement) ViewState {
	if !level.IsNumerical() {
		s.SparsityCleaningEnabled = false
	}
	return s
}

// SparsityCleaningAvailable reports whether the sparsity toggle is enabled in the UI.
func SparsityCleaningAvailable(level LevelOfMeasurement) bool {
	return level.IsNumerical()
}
