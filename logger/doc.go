// Package logger provides structured logging on top of zerolog.
//
// Loggers are created from a Config (level, json or console format,
// stdout or stderr output) and can be scoped with components and fields.
// SDK types default to Nop so embedding applications stay quiet unless
// they pass a logger in.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "openapi").WithComponent("client")
//	log.Info("request sent", logger.Fields(logger.FieldPath, "/register"))
package logger
