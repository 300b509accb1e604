package transaction

import "github.com/gofiber/fiber/v3"

// SetupRoutes настраивает маршруты для заявок
func (s *TransactionService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/requests")
	api.Use(authMiddleware)

	api.Post("/", s.CreateRequestHandler)
	api.Get("/", s.GetMyRequestsHandler)
	api.Get("/:id", s.GetRequestHandler)

	api.Post("/:id/accept", s.AcceptHandler)
	api.Post("/:id/reject", s.RejectHandler)
	api.Post("/:id/cancel", s.CancelHandler)
	api.Post("/:id/begin", s.BeginHandler)
	api.Post("/:id/confirm-return", s.ConfirmReturnHandler)
	api.Post("/:id/complete", s.CompleteHandler)
	api.Post("/:id/dispute", s.DisputeHandler)
}
