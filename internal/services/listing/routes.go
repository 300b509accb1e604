package listing

import "github.com/gofiber/fiber/v3"

// SetupRoutes настраивает маршруты для API объявлений
func (s *ListingService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/listings")

	// Маршрут для получения списка своих объявлений (до /:id)
	api.Get("/my", s.GetMyListingsHandler, authMiddleware)

	// Публичный просмотр объявления
	api.Get("/:id", s.GetListingHandler)

	api.Post("/", s.CreateListingHandler, authMiddleware)
	api.Put("/:id", s.UpdateListingHandler, authMiddleware)
	api.Delete("/:id", s.DeactivateListingHandler, authMiddleware)

	api.Post("/:id/photos", s.AddPhotoHandler, authMiddleware)
	api.Delete("/:id/photos/:photoId", s.RemovePhotoHandler, authMiddleware)
}
