package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// StatusFor сопоставляет вид доменной ошибки с HTTP-статусом
func StatusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation:
		return fiber.StatusBadRequest
	case models.KindPermissionDenied:
		return fiber.StatusForbidden
	case models.KindStateConflict, models.KindConflict:
		return fiber.StatusConflict
	case models.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler превращает ошибки обработчиков в JSON-ответ
func ErrorHandler(c fiber.Ctx, err error) error {
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		return c.Status(StatusFor(domainErr.Kind)).JSON(fiber.Map{
			"error": domainErr.Message,
			"code":  domainErr.Kind.String(),
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	log.Errorw("необработанная ошибка", "request_id", requestid.FromContext(c), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Внутренняя ошибка сервера",
	})
}
