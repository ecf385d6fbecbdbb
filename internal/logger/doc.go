// Package logger wraps zap for the release site and CLI:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing used by the log_level setting,
//   - leveled helpers (Infof, WarnKV, ErrorKV, ...).
//
// Services take a context and pull the logger out of it, so request-scoped
// fields such as request_id follow the call chain.
package logger
