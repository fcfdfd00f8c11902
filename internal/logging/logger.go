package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	mu     sync.RWMutex
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, only warnings and errors are logged.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "CONSOLEKIT_LOG_LEVEL"

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks CONSOLEKIT_LOG_LEVEL environment variable.
// If neither is set, DefaultLevel applies.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		level = DefaultLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// InitializeFromEnv initializes the logger from the CONSOLEKIT_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it to observe output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		// Silent until initialized so CLI output stays clean
		return zap.NewNop()
	}
	return l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogStateChange logs a button presentation state transition
func LogStateChange(label, phase string, loading, confirmOpen bool) {
	Debug("Button state changed",
		zap.String("button", label),
		zap.String("phase", phase),
		zap.Bool("loading", loading),
		zap.Bool("confirm_open", confirmOpen),
	)
}

// LogDispatch logs the start of a button dispatch
func LogDispatch(label, kind, target string) {
	Debug("Button dispatch",
		zap.String("button", label),
		zap.String("mode", kind),
		zap.String("target", target),
	)
}

// LogUnknownFormat logs a button format outside the style vocabulary
func LogUnknownFormat(label, format string) {
	Warn("Button has unknown format",
		zap.String("button", label),
		zap.String("format", format),
	)
}

// LogActionRequest logs a backend action call as seen by the server or client
func LogActionRequest(remoteAddr, transport, action string, err error) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("transport", transport),
		zap.String("action", action),
	}
	if err != nil {
		Warn("Action request failed", append(fields, zap.Error(err))...)
		return
	}
	Info("Action request", fields...)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// Silence discards all log output, for callers that own the terminal.
func Silence() {
	SetLogger(zap.NewNop())
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
