package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/controllers"
	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/middlewares"
	"github.com/superbullet/superbullet/internal/version"
)

type HTTPServerDependencies struct {
	SessionVerifier   domain.SessionVerifier
	AuthController    *controllers.AuthController
	ProjectController *controllers.ProjectController
	FileController    *controllers.FileController
	KnitController    *controllers.KnitController
	// DisableRequestLog turns off the request logger, used by tests
	DisableRequestLog bool
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName:      "superbullet",
		ErrorHandler: errorHandler,
	})

	router.Use(cors.New())
	if !deps.DisableRequestLog {
		router.Use(logger.New())
	}

	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "superbullet",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	requireSession := middlewares.BearerAuthMiddleware(deps.SessionVerifier)

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", deps.AuthController.Register)
	authRoutes.Post("/login", deps.AuthController.Login)
	authRoutes.Get("/verify", requireSession, deps.AuthController.Verify)

	projects := api.Group("/projects", requireSession)
	projects.Get("/", deps.ProjectController.ListProjects)
	projects.Post("/", deps.ProjectController.CreateProject)
	projects.Get("/:id", deps.ProjectController.GetProject)
	projects.Put("/:id", deps.ProjectController.UpdateProject)
	projects.Delete("/:id", deps.ProjectController.DeleteProject)
	projects.Post("/:id/export/gist", deps.ProjectController.ExportGist)

	projects.Get("/:id/files", deps.FileController.ListFiles)
	projects.Post("/:id/files", deps.FileController.CreateFile)
	projects.Get("/:id/files/:fileId", deps.FileController.GetFile)
	projects.Put("/:id/files/:fileId", deps.FileController.UpdateFile)
	projects.Delete("/:id/files/:fileId", deps.FileController.DeleteFile)

	knit := api.Group("/knit", requireSession)
	knit.Post("/scaffold-service", deps.KnitController.ScaffoldService)

	ai := api.Group("/ai", requireSession)
	ai.Post("/generate-code", deps.KnitController.GenerateCode)
	ai.Get("/generations", deps.KnitController.ListGenerations)

	return router
}

// errorHandler renders every error as {"error": message}
func errorHandler(c fiber.Ctx, err error) error {
	if e, ok := domain.AsError(err); ok {
		if e.StatusCode >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		}
		return c.Status(e.StatusCode).JSON(fiber.Map{"error": e.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("Unhandled error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": domain.ErrInternal.Message})
}
