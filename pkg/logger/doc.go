// Package logger provides a context-aware wrapper around Go's slog package
// with functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New builds a *slog.Logger from a set of Option functions: pick an output
// format (text or json), a minimum level, static attributes applied to every
// record, and ContextExtractor callbacks that pull attributes out of the
// context on each log call (a request id, for example).
//
// Helper constructors such as Error, UserID, and RequestID live in attr.go
// and keep attribute naming consistent across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("postkit"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	log.InfoContext(ctx, "generation committed", logger.UserID(userID))
package logger
