package rating

import "github.com/gofiber/fiber/v3"

// SetupRoutes настраивает маршруты для оценок
func (s *RatingService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/ratings")
	api.Use(authMiddleware)

	api.Post("/", s.SubmitRatingHandler)
	api.Get("/", s.GetMyRatingsHandler)
	api.Get("/:id", s.GetRatingHandler)
	api.Put("/:id", s.UpdateRatingHandler)
}
