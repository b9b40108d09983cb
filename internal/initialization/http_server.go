package initialization

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

type HTTPServer struct {
	App             *fiber.App
	Address         string
	ShutdownTimeout time.Duration
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *HTTPServer) Run(ctx context.Context) error {
	log.Info().Str("address", s.Address).Msg("Starting HTTP server")

	if err := s.App.Listen(s.Address, fiber.ListenConfig{
		GracefulContext:       ctx,
		ShutdownTimeout:       s.ShutdownTimeout,
		DisableStartupMessage: true,
	}); err != nil {
		return err
	}

	log.Info().Msg("HTTP server stopped")

	return nil
}
