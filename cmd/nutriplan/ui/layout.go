package ui

// Layout constants for consistent spacing and dimensions
const (
	ViewportHorizontalPadding = 4
	HeaderHeight              = 3
	FooterHeight              = 2

	// Responsive breakpoints
	MinimumTerminalWidth = 60
	CompactModeWidth     = 100

	// Chart dimensions
	ChartHeight   = 8
	MaxChartWidth = 60
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-ViewportHorizontalPadding, MinimumTerminalWidth-ViewportHorizontalPadding)
}

// ContentHeight returns the height left between header and footer
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-HeaderHeight-FooterHeight, 5)
}
