package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-glance/internal/icons"
)

// NewApp builds the Fiber app serving the screen.
func NewApp(states StateReader, table *icons.Table, metrics http.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-glance",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestLogger)

	RegisterRoutes(app, states, table, metrics)
	return app
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var e *fiber.Error
	if errors.As(err, &e) {
		status = e.Code
	}

	log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Str("ip", c.IP()).
		Dur("duration", time.Since(start)).
		Msg("Request processed")
	return err
}
