// Package ui renders consolekit buttons and pages.
//
// Terminal output uses Lipgloss: a Header above each page, one line per
// button styled by its format, a confirmation box, and Result boxes for the
// outcome of a press. Printer writes these components to any io.Writer so
// commands stay testable.
//
// HTML output uses html/template. Link buttons become anchors, every other
// mode a button element; labels pass through defuse.HTML before being
// written unescaped. PreviewHandler serves a screen file as static HTML for
// the serve command.
//
// # Styling
//
// The format of a button selects its color (terminal) or CSS class (HTML).
// Loading takes precedence over the format and disabled buttons are muted.
// The empty format is neutral; an unknown format is neutral in the terminal
// and has no class in HTML.
//
// # Logging Integration
//
// This package expects logging to be controlled via the CONSOLEKIT_LOG_LEVEL
// environment variable. When unset or empty only zap warnings reach stderr,
// so the curated UI output on stdout stays clean.
package ui
