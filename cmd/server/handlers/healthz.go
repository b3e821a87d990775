package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const HealthzTimeout = 5 * time.Second

// Pinger reports whether the board storage is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Board reports note counts for the health payload
type Board interface {
	Counts() (active, trashed int)
}

// Healthz returns the health of the server.
// @Summary Health check
// @Description Check that the board storage is open and report note counts
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func Healthz(db Pinger, board Board) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), HealthzTimeout)
		defer cancel()

		if db == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "down",
				"error":  "storage not initialized",
			})
		}

		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "down",
				"error":  err.Error(),
			})
		}

		active, trashed := board.Counts()
		return c.JSON(fiber.Map{
			"status":  "ok",
			"active":  active,
			"trashed": trashed,
		})
	}
}
