// Package logging provides structured logging utilities for the teams-mcp server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization, token masking)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "teams.list_chats")
//	logger.Info("listing chats",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("member added",
//	    logging.UserHash(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - User emails are hashed to prevent PII leakage while allowing correlation
//   - Access and refresh tokens are never logged directly; SanitizeToken
//     renders only a length indicator
package logging
