package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// BindBody разбирает тело запроса в out. Ошибки валидатора возвращаются как есть,
// любая другая ошибка разбора превращается в ошибку валидации.
func BindBody(c fiber.Ctx, out any) error {
	err := c.Bind().Body(out)
	if err == nil {
		return nil
	}

	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &models.Error{Kind: models.KindValidation, Message: "Неверный формат данных", Cause: err}
}
