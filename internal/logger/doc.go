// Package logger wraps zap to provide:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and configuration,
//   - bridges for third-party libraries that bring their own logger interface
//     (standard *log.Logger and message+key-value loggers).
//
// Services accept a context and take the logger from it, so every scheduler,
// store and notifier line carries the component name it was logged from.
package logger
