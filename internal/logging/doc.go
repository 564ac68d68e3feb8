// Package logging provides structured logging utilities for inboxroute.
//
// Everything logs through the standard library's slog package. This package
// keeps attribute names consistent across the tool handlers, the remote
// service clients and the instrumentation layer.
//
// # Usage Patterns
//
// Attach the tool and service to a logger once per invocation:
//
//	logger := logging.WithTool(slog.Default(), "list_events")
//	logger.Info("remote call finished",
//	    logging.Service("calendar"),
//	    logging.Status(logging.StatusSuccess))
//
// Never log addresses or tokens directly:
//
//	logger.Info("message sent", logging.UserHash(to))
//	logger.Debug("token refreshed", "token", logging.SanitizeToken(tok))
//
// # Output
//
// NewHandler builds a text or JSON handler for a configured level. When the
// server runs over stdio, logs must go to stderr because stdout carries the
// protocol stream.
package logging
