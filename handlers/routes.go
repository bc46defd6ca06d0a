package handlers

import (
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "speakcoach/evaluator/docs"
)

// Register mounts every route on app.
func (h *ApplicationHandler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Evaluator is healthy",
		})
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	apiV1 := app.Group("/api/v1")
	apiV1.Post("/webhooks/call-events", h.HandleCallEvent)
	apiV1.Post("/evaluations", h.CreateEvaluation)
	apiV1.Get("/sessions/:sessionId/evaluation", h.GetSessionEvaluation)
}
