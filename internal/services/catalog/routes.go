package catalog

import "github.com/gofiber/fiber/v3"

// SetupRoutes настраивает маршруты справочников: чтение публичное, запись - после авторизации
func (s *CatalogService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	localities := app.Group("/api/localities")
	localities.Get("/", s.ListLocalitiesHandler)
	localities.Get("/:id", s.GetLocalityHandler)
	localities.Post("/", s.CreateLocalityHandler, authMiddleware)
	localities.Put("/:id", s.UpdateLocalityHandler, authMiddleware)
	localities.Delete("/:id", s.DeleteLocalityHandler, authMiddleware)

	categories := app.Group("/api/categories")
	categories.Get("/", s.ListCategoriesHandler)
	categories.Get("/:id", s.GetCategoryHandler)
	categories.Post("/", s.CreateCategoryHandler, authMiddleware)
	categories.Put("/:id", s.UpdateCategoryHandler, authMiddleware)
	categories.Delete("/:id", s.DeleteCategoryHandler, authMiddleware)
}
