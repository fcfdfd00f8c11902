package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/defuse"
	"github.com/muurk/consolekit/internal/logging"
	"github.com/muurk/consolekit/internal/tui"
	"github.com/muurk/consolekit/internal/ui"
)

// Command flags
var (
	defuseText bool
	pressYes   bool
	pressDry   bool
)

func init() {
	defuseCmd.Flags().BoolVar(&defuseText, "text", false, "Print the text content instead of markup")
	pressCmd.Flags().BoolVarP(&pressYes, "yes", "y", false, "Answer yes to confirmation dialogs")
	pressCmd.Flags().BoolVar(&pressDry, "dry-run", false, "Record links and actions instead of opening or sending them")

	rootCmd.AddCommand(defuseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pressCmd)
	rootCmd.AddCommand(runCmd)
}

// defuseCmd strips scripts and event handlers from HTML
var defuseCmd = &cobra.Command{
	Use:   "defuse [file]",
	Short: "Remove scripts and event handlers from HTML",
	Long: `Read HTML from a file, or stdin when no file is given, and print it
with <script> elements removed and on* and javascript attributes dropped.`,
	Example: `  # Defuse a file
  consolekit defuse label.html

  # Defuse stdin and print only the text
  echo '<b onclick="x()">Go</b>' | consolekit defuse --text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDefuse,
}

func runDefuse(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out := defuse.String(string(data))
	if defuseText {
		out = defuse.Text(string(data))
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

// checkCmd validates a screen file
var checkCmd = &cobra.Command{
	Use:   "check <screens.yaml>",
	Short: "Validate a screen file",
	Long: `Load a screen file, build every button and print them with their
dispatch mode, target and style class. Exits non-zero when any button is
invalid or navigates to a page that does not exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	screens, err := config.LoadScreens(args[0])
	if err != nil {
		return err
	}
	callbacks := builtinCallbacks()
	if err := screens.Validate(callbacks); err != nil {
		return fmt.Errorf("%s is invalid:\n%w", args[0], err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.MutedColor)).
		Headers("PAGE", "#", "LABEL", "MODE", "TARGET", "CLASS", "CONFIRM")

	count := 0
	for _, name := range screens.PageNames() {
		descs, err := screens.Descriptors(name, callbacks)
		if err != nil {
			return err
		}
		for i, d := range descs {
			confirm := ""
			if d.Confirm != nil {
				confirm = d.Confirm.ConfirmText()
			}
			class := button.ClassFor(d.Format, false)
			if !d.Format.Known() {
				class = fmt.Sprintf("? (%s)", d.Format)
			}
			t.Row(name, strconv.Itoa(i+1), ui.ButtonLabel(d), string(d.Mode.Kind()), d.Target(), class, confirm)
			count++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d page(s), %d button(s), start page %q\n", len(screens.Pages), count, screens.StartPage())
	printFormatWarnings(cmd.ErrOrStderr(), screens, callbacks)
	return nil
}

// formatWarnings lists the buttons whose format has no style.
func formatWarnings(screens *config.Screens, callbacks config.Callbacks) []string {
	var warnings []string
	for _, name := range screens.PageNames() {
		descs, err := screens.Descriptors(name, callbacks)
		if err != nil {
			continue
		}
		for i, d := range descs {
			if !d.Format.Known() {
				warnings = append(warnings, fmt.Sprintf("page %q button #%d (%s): unknown format %q",
					name, i+1, ui.ButtonLabel(d), d.Format))
			}
		}
	}
	return warnings
}

func printFormatWarnings(w io.Writer, screens *config.Screens, callbacks config.Callbacks) {
	warn := lipgloss.NewStyle().Foreground(ui.WarningColor)
	for _, msg := range formatWarnings(screens, callbacks) {
		fmt.Fprintln(w, warn.Render("Warning: "+msg))
	}
}

// runCmd starts the interactive console
var runCmd = &cobra.Command{
	Use:   "run <screens.yaml>",
	Short: "Run the interactive console",
	Long: `Open a screen file in the terminal. Use the arrow keys to move between
buttons, enter to press, backspace to go back and q to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("run needs a terminal; use 'consolekit press' for scripted use")
	}

	screens, err := config.LoadScreens(args[0])
	if err != nil {
		return err
	}
	callbacks := builtinCallbacks()
	if err := screens.Validate(callbacks); err != nil {
		return err
	}

	ctx := cmd.Context()
	ep := resolveBackend(ctx, settings)
	inv, release, err := newInvoker(ep, settings.Backend.Timeout)
	if err != nil {
		return err
	}
	defer release()

	printFormatWarnings(cmd.ErrOrStderr(), screens, callbacks)
	if logLevel == "" && settings.LogLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		// stderr writes would tear the alternate screen
		logging.Silence()
	}

	return tui.Run(ctx, tui.Options{
		Screens:   screens,
		Callbacks: callbacks,
		Invoker:   inv,
		Route:     settings.Route,
		Backend:   ep.URL,
	})
}
