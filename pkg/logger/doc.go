// Package logger provides structured JSON logging on top of log/slog,
// with per-call context attribute extraction and optional Sentry fan-out.
//
// Context extractors pull request-scoped values (the chi request id in
// this service) into every log record emitted with a Context variant:
//
//	log := logger.New(logger.RequestID())
//	log.InfoContext(ctx, "submission accepted", slog.String("id", id))
//
// When a Sentry DSN is configured, NewWithSentry mirrors warnings and
// errors to Sentry while keeping stdout JSON as the primary sink; with
// an empty DSN it degrades to stdout only.
package logger
