// Package logging provides the process-wide zap logger for yamactl.
//
// Logging is silent by default so command output stays clean for scripts.
// It is switched on with the --log-level flag or YAMACTL_LOG_LEVEL, and
// written to stderr, or to YAMACTL_LOG_FILE when set (needed for the TUI).
//
// # Log Levels
//
//   - Debug: every probe outcome, every API request and response code
//   - Info: discovery summaries, device selection
//   - Warn: failed commands
//   - Error: unexpected failures
//
// # Usage
//
//	if err := logging.Initialize(flagLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	scanner := discovery.NewScanner(cfg, discovery.WithLogger(logging.Named("discovery")))
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned.
package logging
