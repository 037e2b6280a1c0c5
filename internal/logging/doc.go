// Package logger provides logging for pagevault.
//
// Two loggers live here because the CLI and the library have different
// audiences. CLI commands use Logger, a flag-controlled color logger:
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// Library services (ingestor, access gate) take a *zap.Logger built with
// NewZap, tagged per service:
//
//	log, _ := logger.NewZap(false)
//	ingestor := ingest.New(..., log)
//
// The zap level can be overridden with the PAGEVAULT_LOG_LEVEL environment
// variable.
package logger
