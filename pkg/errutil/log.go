// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}

// LogCompileFailure logs a dilemma expression that failed to parse, at
// Warn rather than Error: a bad expression from a caller-supplied source
// (CLI argument, batch file, embedding host) is an expected, recoverable
// condition, not an operational fault.
func LogCompileFailure(logger *slog.Logger, source string, err error) {
	logger.Warn("dilemma: compile failed", "source", source, errAttrs(err)...)
}

// LogEvaluationFailure logs a compiled expression that failed during
// Evaluate (a type error, division by zero, resolver failure, or unknown
// sentinel) against a specific context.
func LogEvaluationFailure(logger *slog.Logger, source string, err error) {
	logger.Warn("dilemma: evaluate failed", "source", source, errAttrs(err)...)
}

// errAttrs flattens an oops-coded error into slog attributes, reusing the
// same code/context extraction LogError performs.
func errAttrs(err error) []any {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		return attrs
	}
	return []any{"error", err}
}
