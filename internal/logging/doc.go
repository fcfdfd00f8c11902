// Package logging provides structured logging for consolekit.
//
// This package wraps a zap logger with convenience functions. Only warnings
// and errors are logged by default; set CONSOLEKIT_LOG_LEVEL (or pass
// --log-level) to "debug", "info", "warn" or "error" to change that. Output
// goes to stderr in zap's console encoding. The terminal UI calls Silence
// while it owns the screen.
//
// # Domain helpers
//
//	logging.LogDispatch(label, "page", "page:home")
//	logging.LogStateChange(label, "confirm_pending", true, true)
//	logging.LogUnknownFormat(label, "shiny")
//	logging.LogActionRequest(remoteAddr, "websocket", "revoke", err)
//
// # Tests
//
// Tests swap the global logger with SetLogger, typically with a
// zaptest/observer core, and restore it afterwards.
package logging
