package plotspec

import "fmt"

// classPalette is cycled by class index in stacked mode.
var classPalette = []string{"#FF6347", "#4682B4", "#32CD32", "#FFD700", "#6A5ACD"}

const (
	singleColor   = "#6495ED"
	singleOpacity = 0.7
	classOpacity  = 0.75
)

// ClassColor returns the palette color of the i-th target class.
func ClassColor(i int) string {
	if i < 0 {
		i = -i
	}
	return classPalette[i%len(classPalette)]
}

// RGBA renders a #RRGGBB color with an opacity as an rgba() string.
func RGBA(hex string, opacity float64) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, opacity)
}
