package reputation

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// GetPublicProfileHandler возвращает публичный профиль пользователя с репутацией
func (s *ReputationService) GetPublicProfileHandler(c fiber.Ctx) error {
	userID, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	profile, err := s.PublicProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// SetupRoutes настраивает маршруты публичных профилей
func (s *ReputationService) SetupRoutes(app *fiber.App) {
	app.Get("/api/users/:id/profile", s.GetPublicProfileHandler)
}
