// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and two correlation helpers: one for scene
// lifecycle events, one for the optional debug HTTP server.
//
// # Context Awareness
//
// WithSceneID attaches the scene_id field produced by the scene lifecycle's
// monotonic counter, so every log line touching a scene's import, load, or
// dispose can be traced back to it regardless of which goroutine emitted it.
// WithRequestID does the analogous thing for the debug server, extracting a
// request id from the Fiber context.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("engine started")
//
//	l := logger.WithSceneID(log, scene.ID())
//	l.Error("import failed", zap.Error(err))
package logger
