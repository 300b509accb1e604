package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// CreateListingHandler обрабатывает создание нового объявления
func (s *ListingService) CreateListingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var input ListingInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	listing, err := s.CreateListing(c.Context(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetListingHandler возвращает объявление по ID
func (s *ListingService) GetListingHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	listing, err := s.GetListing(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

// GetMyListingsHandler возвращает объявления текущего пользователя
func (s *ListingService) GetMyListingsHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	includeInactive := fiber.Query[bool](c, "include_inactive")
	listings, err := s.GetMyListings(c.Context(), userID, includeInactive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"listings": listings})
}

// UpdateListingHandler обновляет объявление
func (s *ListingService) UpdateListingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var input ListingInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	listing, err := s.UpdateListing(c.Context(), userID, id, input)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

// DeactivateListingHandler снимает объявление с публикации
func (s *ListingService) DeactivateListingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	listing, err := s.DeactivateListing(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

// AddPhotoHandler прикрепляет фотографию к объявлению
func (s *ListingService) AddPhotoHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var input PhotoInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	photo, err := s.AddPhoto(c.Context(), userID, id, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// RemovePhotoHandler удаляет фотографию объявления
func (s *ListingService) RemovePhotoHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	photoID, err := middleware.ParamUUID(c, "photoId")
	if err != nil {
		return err
	}

	if err := s.RemovePhoto(c.Context(), userID, id, photoID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
