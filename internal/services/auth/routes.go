package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// TelegramAuthHandler проверяет initData, создает JWT и возвращает его
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	var payload struct {
		InitData string `json:"init_data" validate:"required"`
	}
	if err := middleware.BindBody(c, &payload); err != nil {
		return err
	}

	token, user, err := s.Login(c.Context(), payload.InitData)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GetProfileHandler возвращает профиль текущего пользователя
func (s *AuthService) GetProfileHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	user, err := s.Profile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfileHandler обновляет профиль текущего пользователя
func (s *AuthService) UpdateProfileHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var input ProfileInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	user, err := s.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Post("/api/auth/telegram", s.TelegramAuthHandler)

	// Защищенные маршруты
	app.Get("/api/profile", s.GetProfileHandler, authMiddleware)
	app.Put("/api/profile", s.UpdateProfileHandler, authMiddleware)
}
