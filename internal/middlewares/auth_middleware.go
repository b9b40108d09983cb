package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
)

const sessionKey = "session"

// BearerAuthMiddleware verifies the Authorization header and stores the session in locals
func BearerAuthMiddleware(verifier domain.SessionVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return domain.ErrUnauthorized
		}

		token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
		if token == "" {
			return domain.ErrInvalidToken
		}

		session, err := verifier.VerifySession(token)
		if err != nil {
			log.Debug().
				Err(err).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("Bearer token rejected")

			return domain.ErrInvalidToken
		}

		c.Locals(sessionKey, session)

		return c.Next()
	}
}

// Session returns the session stored by BearerAuthMiddleware
func Session(c fiber.Ctx) (domain.Session, error) {
	session, ok := c.Locals(sessionKey).(domain.Session)
	if !ok {
		return domain.Session{}, domain.ErrUnauthorized
	}

	return session, nil
}
