// Consolekit renders and drives consoles of action buttons.
//
// A console is described by a screen file: named pages of buttons, each of
// which opens a link, runs a local callback, invokes a backend action, or
// moves to another page. Buttons may be guarded by a confirmation dialog.
// Any label or tooltip markup is defused before it is shown.
//
// Usage:
//
//	consolekit [command] [flags]
//
// See 'consolekit --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/logging"
	"github.com/muurk/consolekit/internal/version"
)

// Global flags
var (
	configPath  string
	logLevel    string
	backendFlag string
)

// settings is loaded once by the root command before any subcommand runs.
var settings = config.NewSettings()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "consolekit",
	Short: "Action button console toolkit",
	Long: `Consolekit loads screen files of action buttons and drives them.

Buttons open links, run built-in callbacks, invoke actions on a console
backend over HTTP or WebSocket, or navigate between pages. Consolekit can
also serve a demo backend and discover backends on the local network.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default is the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+logging.LogLevelEnvVar+" or "+logging.DefaultLevel+")")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Backend URL (skips settings and discovery)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads settings and initializes logging. The --log-level flag wins
// over the settings file, which wins over the environment.
func setup() error {
	s, err := config.LoadSettings(configPath)
	if err != nil {
		return err
	}
	settings = s

	level := logLevel
	if level == "" {
		level = settings.LogLevel
	}
	return logging.Initialize(level)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "consolekit %s\n", version.Full())
	},
}
