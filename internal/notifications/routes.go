package notifications

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
)

// MaxWait ограничивает время удержания запроса
const MaxWait = 30 * time.Second

// PollHandler отдаёт непрочитанные события; ?wait=20s держит запрос, пока ящик пуст
func (h *Hub) PollHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var wait time.Duration
	if raw := c.Query("wait"); raw != "" {
		if wait, err = time.ParseDuration(raw); err != nil || wait < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный параметр wait")
		}
	}
	if wait > MaxWait {
		wait = MaxWait
	}

	return c.JSON(fiber.Map{"events": h.Drain(c.Context(), userID, wait)})
}

// SetupRoutes настраивает маршрут уведомлений
func (h *Hub) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Get("/api/notifications", h.PollHandler, authMiddleware)
}
