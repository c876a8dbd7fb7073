package logging

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "YAMACTL_LOG_LEVEL"

// LogFileEnvVar redirects log output to a file. The TUI owns the terminal,
// so this is the only way to see its logs.
const LogFileEnvVar = "YAMACTL_LOG_FILE"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks YAMACTL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
// Output goes to stderr, or to YAMACTL_LOG_FILE when set.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := "stderr"
	if path := os.Getenv(LogFileEnvVar); path != "" {
		output = path
	}

	l, err := build(level, output)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// InitializeFromEnv initializes the logger from the YAMACTL_LOG_LEVEL
// environment variable. Silent unless the variable is set.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level. Unknown names fall back to info.
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

func build(level, output string) (*zap.Logger, error) {
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized
		logger = zap.NewNop()
	}
	return logger
}

// Named returns a child of the global logger for one component
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
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

// LogDeviceSelected logs which receiver a command is going to talk to
func LogDeviceSelected(addr netip.Addr, model, source string) {
	Info("Device selected",
		zap.Stringer("ip", addr),
		zap.String("model", model),
		zap.String("source", source),
	)
}

// LogCommand logs a control command sent to a receiver
func LogCommand(host, zone, command, value string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("host", host),
		zap.String("zone", zone),
		zap.String("command", command),
		zap.String("value", value),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Command failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Command sent", fields...)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
