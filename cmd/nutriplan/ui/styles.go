// Package ui provides the visual styling for the nutriplan terminal interface.
// Light and dark themes share the emerald brand accent.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light palette (default)
	LightBackground = lipgloss.Color("#f8fafc") // slate-50
	LightForeground = lipgloss.Color("#1e293b") // slate-800
	LightPrimary    = lipgloss.Color("#059669") // emerald-600
	LightAccent     = lipgloss.Color("#10b981") // emerald-500
	LightSecondary  = lipgloss.Color("#f1f5f9") // slate-100
	LightMuted      = lipgloss.Color("#64748b") // slate-500
	LightBorder     = lipgloss.Color("#e2e8f0") // slate-200

	// Dark palette
	DarkBackground = lipgloss.Color("#0f172a") // slate-900
	DarkForeground = lipgloss.Color("#f1f5f9")
	DarkPrimary    = lipgloss.Color("#34d399") // emerald-400
	DarkAccent     = lipgloss.Color("#10b981")
	DarkSecondary  = lipgloss.Color("#1e293b")
	DarkMuted      = lipgloss.Color("#94a3b8")
	DarkBorder     = lipgloss.Color("#334155")

	// Status colors, shared by both palettes
	Destructive = lipgloss.Color("#e11d48") // rose-600
	Success     = lipgloss.Color("#10b981")
	Warning     = lipgloss.Color("#f59e0b")
	Info        = lipgloss.Color("#3b82f6")
)

// Theme is a resolved palette.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme is the slate-on-white palette.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme is the slate-900 palette.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme returns the dark theme when preferDark or NUTRIPLAN_DARK_MODE=1
// is set, or when COLORFGBG reports a dark background.
func DetectTheme(preferDark bool) Theme {
	if preferDark || os.Getenv("NUTRIPLAN_DARK_MODE") == "1" {
		return DarkTheme()
	}
	// Format is usually "foreground;background"; 0-6 and 8 are dark backgrounds.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles is the set of lipgloss styles shared by every view.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Card     lipgloss.Style
	Selected lipgloss.Style
	Modal    lipgloss.Style
	Spinner  lipgloss.Style
	Divider  lipgloss.Style
	Badge    lipgloss.Style
	Chart    lipgloss.Style
}

// NewStyles derives all styles from theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Secondary).
			Bold(true).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Modal: lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.ThickBorder()).
			BorderForeground(Destructive),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Chart: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles uses DetectTheme(false).
func DefaultStyles() Styles {
	return NewStyles(DetectTheme(false))
}

// Logo renders the application name.
func Logo(s Styles) string {
	return s.Header.Render("NutriPlan") + s.Muted.Render("AI")
}

// RenderDivider draws a rule width cells wide.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
