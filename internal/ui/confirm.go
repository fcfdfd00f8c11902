package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/defuse"
)

// RenderConfirmBox renders the confirmation dialog of a button.
func RenderConfirmBox(c button.Confirm, width int) string {
	width = clampWidth(width)

	titleLine := WarningTitleStyle.Render(fmt.Sprintf("   %s  %s", WarningMarker, defuse.Text(c.Label)))

	descStyle := lipgloss.NewStyle().
		Foreground(TextColor).
		Width(width - 12).
		PaddingLeft(3)

	choices := lipgloss.NewStyle().Foreground(MutedColor).PaddingLeft(3).Render(
		fmt.Sprintf("[y] %s    [n] %s", c.ConfirmText(), c.CancelText()),
	)

	content := strings.Join([]string{
		"",
		titleLine,
		"",
		descStyle.Render(defuse.Text(c.Description)),
		"",
		choices,
		"",
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(content)
}

// PromptConfirm shows the dialog on out and reads one answer from in.
// "y", "yes" or the confirm caption accept; anything else, including an
// empty line or end of input, declines.
func PromptConfirm(in io.Reader, out io.Writer, c button.Confirm, width int) (bool, error) {
	_, _ = fmt.Fprintln(out, RenderConfirmBox(c, width))

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("%s? [y/N]: ", c.ConfirmText())))

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	_, _ = fmt.Fprintln(out)

	input = strings.TrimSpace(input)
	switch {
	case strings.EqualFold(input, "y"), strings.EqualFold(input, "yes"),
		strings.EqualFold(input, c.ConfirmText()):
		return true, nil
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	return false, nil
}
