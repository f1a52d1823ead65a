// Package core holds the shared building blocks of the portal client:
// configuration, error types, validation setup and the logger contract.
package core

// Ack is the acknowledgement returned by the backend for a write
// operation. Message is human-readable and shown to the operator as-is.
type Ack struct {
	Message string `json:"message"`
}

// Logger is the app-wide logging contract implemented in services/logger.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
