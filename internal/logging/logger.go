// Package logging defines the structured-logging interface injected into
// every service. Security-relevant events (failed logins, bad verification
// tokens, reactions on missing posts) go through this interface so the acting
// identity and target always land in the audit trail.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key-value
// pairs, e.g. log.Warn(ctx, "invalid verification token", "token", token).
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
