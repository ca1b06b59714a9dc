// Package fragments provides template path constants for organized template management
package fragments

// Template path constants, relative to ui/templates
const (
	// Page templates
	FeatureCardPage = "feature_card.html"

	// Card fragments
	StatsPanel = "card/stats_panel.html"
	ErrorBlock = "card/error_block.html"
	ToggleBar  = "card/toggle_bar.html"
	ChartFrame = "card/chart_frame.html"
	EmptyChart = "card/empty_chart.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		FeatureCardPage,

		StatsPanel,
		ErrorBlock,
		ToggleBar,
		ChartFrame,
		EmptyChart,
	}
}

