// Package config loads consolekit settings and screen files.
//
// Settings live in a YAML file that follows OS-specific conventions for
// storage location:
//   - Linux: $XDG_CONFIG_HOME/consolekit/config.yaml or $HOME/.config/consolekit/config.yaml
//   - macOS: $HOME/.config/consolekit/config.yaml
//   - Windows: %LOCALAPPDATA%\consolekit\config.yaml
//
// A screen file describes the pages of a console and their buttons:
//
//	version: 1
//	start: home
//	pages:
//	  home:
//	    title: Home
//	    buttons:
//	      - label: Restart service
//	        format: terminate
//	        action: restart
//	        confirm:
//	          label: Restart?
//	          description: Running jobs will be interrupted.
//	      - label: Settings
//	        page: settings
//	      - label: Docs
//	        href: https://example.com/docs
//	        target: _blank
//
// ButtonSpec.Descriptor turns each entry into a button.Descriptor; on_click
// names are resolved against a Callbacks registry supplied by the caller.
//
// # Thread Safety
//
// Settings.Save is protected by a mutex and writes atomically.
package config
