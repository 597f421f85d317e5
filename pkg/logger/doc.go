// Package logger provides the structured logging interface used across igfetch.
//
// It wraps zerolog with a small API:
// - Log levels (Debug, Info, Warn, Error)
// - Structured fields via WithField, WithFields and the *WithFields methods
// - Colored console output on stderr, or append-mode file output
// - A process-global logger for command code
//
// Console logs go to stderr so the single status line printed on stdout
// ("Downloaded: ...", "Invalid Instagram URL", ...) stays machine readable.
//
// Usage:
//
//	cfg := &config.LoggingConfig{Level: "debug"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("url", rawURL).Debug("classifying url")
//
// Tests can use NewTestLogger to capture messages and assert on them.
package logger
