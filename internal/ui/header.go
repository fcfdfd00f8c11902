package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line of a header.
type Param struct {
	Key   string
	Value string
}

// Header is the banner shown above a page of buttons.
type Header struct {
	Title       string  // Page title
	Description string  // Optional one-line description
	Params      []Param // Shown in order below a divider
	Width       int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, description string, params ...Param) *Header {
	return &Header{
		Title:       title,
		Description: description,
		Params:      params,
		Width:       GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	sections := []string{HeaderTitleStyle.Render(strings.ToUpper(h.Title))}
	if h.Description != "" {
		sections = append(sections, HeaderSubtitleStyle.Width(width-6).Render(h.Description))
	}

	if len(h.Params) > 0 {
		dividerWidth := width - 6 // Account for border and padding
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		sections = append(sections, RenderHorizontalDivider(dividerWidth, "─"))

		for _, p := range h.Params {
			keyStyled := HeaderParamKeyStyle.Render(p.Key + ":")
			valueStyled := HeaderParamValueStyle.Render(p.Value)
			sections = append(sections, keyStyled+" "+valueStyled)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
