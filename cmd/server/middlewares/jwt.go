package middlewares

import (
	"note-board/cmd/server/ctxkeys"
	"note-board/cmd/server/handlers/httperr"
	"note-board/internal/config"
	"note-board/internal/logger"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT returns a Fiber middleware guarding the API.
//
// With no JWT_SECRET configured the board is open and the middleware only
// calls the next handler. Otherwise it validates the Bearer token signature,
// requires a non-empty "sub" claim and stores it in ctx.Locals(ctxkeys.SubjectKey).
//
// On any problem it bubbles up a 401 via the global httperr handler.
func JWT(cfg config.Config) fiber.Handler {
	if !cfg.AuthEnabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: ctxkeys.JWTTokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(ctxkeys.JWTTokenKey).(*jwt.Token)
			if !ok {
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				return httperr.Fail(httperr.E{Status: 401, Message: "Invalid token: missing sub"})
			}

			c.Locals(ctxkeys.SubjectKey, subject)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.L().Warn("rejected bearer token", "path", c.Path(), "error", err)
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}
