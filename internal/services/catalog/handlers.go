package catalog

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// ListLocalitiesHandler возвращает список населённых пунктов
func (s *CatalogService) ListLocalitiesHandler(c fiber.Ctx) error {
	localities, err := s.ListLocalities(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"localities": localities})
}

// GetLocalityHandler возвращает населённый пункт по ID
func (s *CatalogService) GetLocalityHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	loc, err := s.GetLocality(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(loc)
}

// CreateLocalityHandler создаёт населённый пункт
func (s *CatalogService) CreateLocalityHandler(c fiber.Ctx) error {
	var input LocalityInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}
	loc, err := s.CreateLocality(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

// UpdateLocalityHandler изменяет населённый пункт
func (s *CatalogService) UpdateLocalityHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var input LocalityInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}
	loc, err := s.UpdateLocality(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(loc)
}

// DeleteLocalityHandler удаляет населённый пункт
func (s *CatalogService) DeleteLocalityHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.DeleteLocality(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategoriesHandler возвращает список категорий
func (s *CatalogService) ListCategoriesHandler(c fiber.Ctx) error {
	categories, err := s.ListCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategoryHandler возвращает категорию по ID
func (s *CatalogService) GetCategoryHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	cat, err := s.GetCategory(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(cat)
}

// CreateCategoryHandler создаёт категорию
func (s *CatalogService) CreateCategoryHandler(c fiber.Ctx) error {
	var input CategoryInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}
	cat, err := s.CreateCategory(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// UpdateCategoryHandler изменяет категорию
func (s *CatalogService) UpdateCategoryHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var input CategoryInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}
	cat, err := s.UpdateCategory(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(cat)
}

// DeleteCategoryHandler удаляет категорию
func (s *CatalogService) DeleteCategoryHandler(c fiber.Ctx) error {
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.DeleteCategory(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
