package debugserver

import (
	"context"

	"mapengine/core/loader"
	"mapengine/core/middleware/auth"
	"mapengine/core/middleware/requestid"
	"mapengine/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Server is the optional debug/introspection HTTP server (spec §12.3),
// mirroring the shape of the teacher's cmd/start.go fiber bootstrap:
// build the app, register middleware, mount routes, then Listen in the
// background.
type Server struct {
	app    *fiber.App
	logger *zap.Logger
}

// New builds a Server exposing scenes's state under cfg's port/api key.
// cfg.Enabled is the caller's concern (whether to call Start at all);
// New itself always builds the app.
func New(cfg server.Config, scenes SceneProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			requestID, _ := c.Locals("request_id").(string)
			logger.Error("debugserver: request error",
				zap.String("request_id", requestID),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return err
	})
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(NewHandler(scenes))
	if err := mgr.LoadAll(app); err != nil {
		logger.Error("debugserver: feature load failed", zap.Error(err))
	}

	return &Server{app: app, logger: logger}
}

// Start begins listening on addr in the background, logging (not
// returning) a listen failure — matching the teacher's "optional
// sidecar, never block startup on it" posture.
func (s *Server) Start(addr string) {
	go func() {
		if err := s.app.Listen(addr); err != nil {
			s.logger.Warn("debugserver: listener stopped", zap.Error(err))
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App returns the underlying fiber app, for in-process request testing
// (httptest-style), matching the teacher's handler_test.go pattern.
func (s *Server) App() *fiber.App { return s.app }
