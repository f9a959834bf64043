// Package errors provides the classified error primitives used across featuredocs.
//
// Every failure the pipeline or the reconciler can surface is built as a
// ClassifiedError so the CLI can pick an exit code and a log level from its
// category and severity alone.
//
//   - ErrorCategory: what failed (input, config, build, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ErrorBuilder: fluent construction with context and cause
//   - CLIErrorAdapter: exit code mapping and user-facing formatting
//
// Example usage:
//
//	err := errors.MissingInputError("manifest not found").
//		WithContext("path", manifestPath).
//		WithCause(statErr).
//		Build()
package errors
