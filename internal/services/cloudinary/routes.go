package cloudinary

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// GenerateUploadParamsHandler возвращает подписанные параметры загрузки
func (s *CloudinaryService) GenerateUploadParamsHandler(c fiber.Ctx) error {
	listingID := c.Query("listing_id")
	if listingID != "" {
		if _, err := uuid.Parse(listingID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат listing_id")
		}
	}

	params, err := s.GenerateUploadParams(listingID)
	if errors.Is(err, ErrNotConfigured) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Загрузка изображений не настроена")
	}
	if err != nil {
		return err
	}
	return c.JSON(params)
}

// SetupRoutes настраивает маршрут получения параметров загрузки
func (s *CloudinaryService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Get("/api/upload/params", s.GenerateUploadParamsHandler, authMiddleware)
}
