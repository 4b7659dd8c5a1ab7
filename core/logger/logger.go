package logger

// Logger exposes logging methods for common severity levels. The engine logs
// every non-fatal scheduling decision (drops, skipped divisions, unmatched
// remaps) through this interface so runs can be audited after the fact.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StructuredLogger can log structured debug information. It is implemented by
// ZerologLogger and other adapters.
type StructuredLogger interface {
	Debugw(msg string, fields map[string]any)
}
