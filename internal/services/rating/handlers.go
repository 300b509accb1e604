package rating

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// SubmitRatingHandler сохраняет новую оценку
func (s *RatingService) SubmitRatingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var input SubmitInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	r, err := s.Submit(c.Context(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// GetMyRatingsHandler возвращает оценки пользователя
func (s *RatingService) GetMyRatingsHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	ratings, err := s.ListMine(c.Context(), userID, c.Query("direction", "all"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ratings": ratings})
}

// GetRatingHandler возвращает оценку
func (s *RatingService) GetRatingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	r, err := s.Get(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// UpdateRatingHandler изменяет свою оценку
func (s *RatingService) UpdateRatingHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var input UpdateInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	r, err := s.Update(c.Context(), userID, id, input)
	if err != nil {
		return err
	}
	return c.JSON(r)
}
