package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/consolekit/internal/button"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	InfoColor    = lipgloss.Color("#5FAFD7") // Blue - links, optional actions
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
	NeutralColor = lipgloss.Color("#BCBCBC") // Light gray - neutral buttons
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
)

// Shared styles
var (
	// HeaderTitleStyle is for the page title
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderSubtitleStyle is for the page description
	HeaderSubtitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Backend:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// WarningTitleStyle is for the warning result title
	WarningTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// TroubleshootingTitleStyle is for "Troubleshooting:" headers
	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	// TroubleshootingItemStyle is for troubleshooting bullet points
	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)

	// TooltipStyle is for the tooltip of the focused button
	TooltipStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// Markers
const (
	SuccessMarker  = "✓"
	FailureMarker  = "✗"
	WarningMarker  = "⚠"
	FocusMarker    = "›"
	LinkMarker     = "↗"
	LoadingMarker  = "…"
	DisabledMarker = "·"
)

// formatColors maps each button format to its terminal color. It mirrors
// the CSS lookup in package button.
var formatColors = map[button.Format]lipgloss.Color{
	button.FormatPrimary:     PrimaryColor,
	button.FormatSubmit:      PrimaryColor,
	button.FormatLoading:     MutedColor,
	button.FormatCancel:      NeutralColor,
	button.FormatReset:       NeutralColor,
	button.FormatExpected:    SuccessColor,
	button.FormatFailure:     ErrorColor,
	button.FormatOptional:    InfoColor,
	button.FormatAlternative: InfoColor,
	button.FormatExceptional: WarningColor,
	button.FormatTerminate:   ErrorColor,
	button.FormatTile:        TextColor,
}

// FormatColor returns the color for f. The empty format and unknown
// formats get NeutralColor.
func FormatColor(f button.Format) lipgloss.Color {
	if c, ok := formatColors[f]; ok {
		return c
	}
	return NeutralColor
}

// ButtonStyle returns the style of a button. Loading takes precedence over
// the format; disabled buttons are muted.
func ButtonStyle(f button.Format, st button.State, disabled, focused bool) lipgloss.Style {
	color := FormatColor(f)
	switch {
	case st.Loading:
		color = MutedColor
	case disabled:
		color = MutedColor
	}

	style := lipgloss.NewStyle().
		Foreground(color).
		Padding(0, 1)

	if st.Loading {
		style = style.Italic(true)
	}
	if disabled {
		style = style.Faint(true)
	}
	if focused {
		style = style.
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(color)
	}
	return style
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _ := GetTerminalSize()
	return width
}

// GetTerminalSize returns the current terminal width and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	return clampWidth(width), height
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// HeaderBorderStyle returns the border style for page headers
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// ResultBoxStyle returns the double-bordered box used for results
func ResultBoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, DefaultPadding)
}

// TroubleshootingBoxStyle returns the border style for troubleshooting sections
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	innerWidth := width - 12 // Indent within outer box
	if innerWidth < 40 {
		innerWidth = 40
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3)
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
