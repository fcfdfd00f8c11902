package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/defuse"
)

// ButtonLabel returns the plain-text caption of a button. Rich labels are
// defused and reduced to their text.
func ButtonLabel(desc button.Descriptor) string {
	return strings.TrimSpace(defuse.Text(desc.Label))
}

// RenderButton renders one button for the terminal.
func RenderButton(b *button.Button, focused bool) string {
	desc := b.Descriptor()
	return RenderDescriptor(desc, b.State(), focused)
}

// RenderDescriptor renders desc in state st.
func RenderDescriptor(desc button.Descriptor, st button.State, focused bool) string {
	label := ButtonLabel(desc)
	switch {
	case st.Loading:
		label += " " + LoadingMarker
	case desc.IsLink():
		label += " " + LinkMarker
	}
	if desc.Disabled {
		label = DisabledMarker + " " + label
	}

	marker := "  "
	if focused {
		marker = FocusMarker + " "
	}
	return marker + ButtonStyle(desc.Format, st, desc.Disabled, focused).Render(label)
}

// RenderButtonList renders buttons one per line with the focused one
// highlighted. The tooltip of the focused button follows the list.
func RenderButtonList(buttons []*button.Button, focus int) string {
	lines := make([]string, 0, len(buttons)+2)
	for i, b := range buttons {
		lines = append(lines, RenderButton(b, i == focus))
	}
	if focus >= 0 && focus < len(buttons) {
		if tip := buttons[focus].Descriptor().Tooltip; tip != "" {
			lines = append(lines, "", TooltipStyle.Render("  "+defuse.Text(tip)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
