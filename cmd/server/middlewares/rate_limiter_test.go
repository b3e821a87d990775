package middlewares

import (
	"testing"
	"time"

	"note-board/cmd/server/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRateLimiter(t *testing.T) {
	t.Run("disabled when max is zero", func(t *testing.T) {
		app := testutil.CreateTestApp(t)
		app.Use(BuildRateLimiter(0, time.Minute))
		app.Get("/api/v1/notes", func(c *fiber.Ctx) error { return c.SendStatus(200) })

		for range 5 {
			resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/v1/notes", nil))
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		}
	})

	t.Run("limits after max requests", func(t *testing.T) {
		app := testutil.CreateTestApp(t)
		app.Use(BuildRateLimiter(2, time.Minute, "/healthz"))
		app.Get("/api/v1/notes", func(c *fiber.Ctx) error { return c.SendStatus(200) })
		app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendStatus(200) })

		codes := make([]int, 0, 3)
		for range 3 {
			resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/v1/notes", nil))
			require.NoError(t, err)
			codes = append(codes, resp.StatusCode)
		}
		assert.Equal(t, []int{200, 200, 429}, codes)

		resp, err := app.Test(testutil.CreateJSONRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, "skipped prefix must bypass the limiter")
	})
}
