package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/backend"
	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/discovery"
	"github.com/muurk/consolekit/internal/logging"
	"github.com/muurk/consolekit/internal/ui"
)

// Serve and discover flags
var (
	serveAddr     string
	serveScreens  string
	serveName     string
	noAnnounce    bool
	scanTimeout   time.Duration
	forceOverride bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", fmt.Sprintf(":%d", discovery.DefaultPort), "Listen address")
	serveCmd.Flags().StringVar(&serveScreens, "screens", "", "Screen file to preview at /")
	serveCmd.Flags().StringVar(&serveName, "name", "", "mDNS instance name (default is the hostname)")
	serveCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not advertise the backend via mDNS")

	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for backends")

	configInitCmd.Flags().BoolVar(&forceOverride, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// serveCmd runs the demo backend
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a demo console backend",
	Long: `Serve the demo actions over HTTP (POST /action) and WebSocket (/ws).
With --screens the screen file is rendered as HTML at /. The backend is
advertised via mDNS so 'consolekit discover' can find it.

Demo actions: ping, time, slow, fail.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := backend.NewServer()
	registerDemoActions(srv)

	if serveScreens != "" {
		screens, err := config.LoadScreens(serveScreens)
		if err != nil {
			return err
		}
		callbacks := builtinCallbacks()
		if err := screens.Validate(callbacks); err != nil {
			return err
		}
		srv.Preview = ui.PreviewHandler(screens, callbacks)
	}

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serveAddr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if !noAnnounce {
		name := serveName
		if name == "" {
			name, _ = os.Hostname()
		}
		if name == "" {
			name = "consolekit"
		}
		shutdown, err := discovery.Announce(name, port, discovery.TXTRecords("", backend.TransportHTTP))
		if err != nil {
			logging.Warn("mDNS announcement failed", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Console backend", "Press Ctrl+C to stop",
		ui.Param{Key: "Address", Value: ln.Addr().String()},
		ui.Param{Key: "Actions", Value: fmt.Sprint(srv.Actions())},
	)

	return srv.Serve(cmd.Context(), ln)
}

// registerDemoActions installs the actions served by 'consolekit serve'.
func registerDemoActions(srv *backend.Server) {
	srv.Handle("ping", func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
		return button.ActionResult{Status: "ok", Message: "pong"}, nil
	})
	srv.Handle("time", func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
		now := time.Now()
		return button.ActionResult{
			Status:  "ok",
			Message: now.Format(time.RFC1123),
			Data:    map[string]any{"unix": now.Unix()},
		}, nil
	})
	srv.Handle("slow", func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
		select {
		case <-time.After(2 * time.Second):
			return button.ActionResult{Status: "ok", Message: "done"}, nil
		case <-ctx.Done():
			return button.ActionResult{}, ctx.Err()
		}
	})
	srv.Handle("fail", func(ctx context.Context, req button.ActionRequest) (button.ActionResult, error) {
		return button.ActionResult{}, errors.New("demo action failed")
	})
}

// discoverCmd browses mDNS for backends
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find console backends on the local network",
	Long:  `Browse mDNS for ` + discovery.ServiceType + ` services and list the backends found.`,
	Example: `  # Listen for 5 seconds (default)
  consolekit discover

  # Longer scan for slow networks
  consolekit discover --timeout 15s`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for console backends (timeout: %s)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	backends, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		fmt.Fprintln(out, "No backends found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Ensure 'consolekit serve' is running without --no-announce")
		fmt.Fprintln(out, "  - Check that multicast traffic is allowed on this network")
		fmt.Fprintln(out, "  - Try increasing --timeout")
		fmt.Fprintln(out, "  - Use --backend to give the URL directly")
		return nil
	}

	fmt.Fprintf(out, "Found %d backend(s):\n\n", len(backends))
	for i, b := range backends {
		fmt.Fprintf(out, "%d. %s\n", i+1, b.Instance)
		fmt.Fprintf(out, "   URL:       %s\n", b.URL())
		fmt.Fprintf(out, "   Transport: %s\n", b.Transport)
		fmt.Fprintf(out, "   Host:      %s\n", b.Host)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "Use 'consolekit --backend <url> run <screens.yaml>' to connect")
	return nil
}

// configCmd manages the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceOverride {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.CreateDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := settingsPath()
		ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("Settings", path,
			ui.Param{Key: "Backend", Value: settings.Backend.URL},
			ui.Param{Key: "Transport", Value: settings.Backend.Transport},
			ui.Param{Key: "Timeout", Value: settings.Backend.Timeout.String()},
			ui.Param{Key: "Route", Value: settings.Route},
			ui.Param{Key: "Discovery", Value: fmt.Sprintf("%t (%s)", settings.Discover.Enabled, settings.Discover.Timeout)},
		)
	},
}

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
