package api

import (
	"errors"
	"os"
	"path/filepath"

	"oscar/docs"
	"oscar/internal/api/handlers"
	"oscar/pkg/auth"
	"oscar/pkg/config"
	"oscar/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	chatHandler *handlers.ChatHandler,
	oscarHandler *handlers.OscarHandler,
	jwtManager *auth.JWTManager,
	cfg *config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "oscar",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// importing docs registers the swagger document
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	if webStaticPath := findWebStaticPath(cfg.StaticDir, appLogger); webStaticPath != "" {
		appLogger.Info("Serving portfolio front-end", zap.String("path", webStaticPath))
		app.Static("/static", webStaticPath)
		indexPath := filepath.Join(webStaticPath, "index.html")
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendFile(indexPath)
		})
	}

	v1 := app.Group("/api/v1")

	v1.Post("/sessions", chatHandler.StartSession)

	chat := v1.Group("/chat", middleware.SessionMiddleware(jwtManager, appLogger))
	chat.Post("/messages", chatHandler.SendMessage)
	chat.Get("/messages", chatHandler.ListMessages)

	oscar := v1.Group("/oscar")
	oscar.Post("/respond", oscarHandler.Respond)
	oscar.Get("/matches", oscarHandler.Matches)
	oscar.Get("/suggestions", oscarHandler.Suggestions)
	oscar.Get("/topics", oscarHandler.Topics)

	return app
}

// findWebStaticPath returns the configured directory, or the first web/static
// near the working directory that has an index.html.
func findWebStaticPath(configured string, logger *zap.Logger) string {
	if configured != "" {
		if fileExists(filepath.Join(configured, "index.html")) {
			return configured
		}
		logger.Warn("WEB_STATIC_DIR has no index.html, front-end disabled", zap.String("path", configured))
		return ""
	}

	paths := []string{
		"web/static",
		"../web/static",
		"../../web/static",
	}
	for _, path := range paths {
		if fileExists(filepath.Join(path, "index.html")) {
			return path
		}
		logger.Debug("Tried path", zap.String("path", path))
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
