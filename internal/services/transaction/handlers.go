package transaction

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/middleware"
	"github.com/rajivgeraev/barrio-api/internal/models"
)

// CreateRequestHandler создаёт заявку на объект
func (s *TransactionService) CreateRequestHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var input CreateInput
	if err := middleware.BindBody(c, &input); err != nil {
		return err
	}

	r, err := s.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// GetMyRequestsHandler возвращает входящие и исходящие заявки
func (s *TransactionService) GetMyRequestsHandler(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	requests, err := s.ListMine(c.Context(), userID, c.Query("role", "all"), c.Query("state"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// GetRequestHandler возвращает заявку участнику
func (s *TransactionService) GetRequestHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Get)
}

// AcceptHandler принимает заявку
func (s *TransactionService) AcceptHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Accept)
}

// RejectHandler отклоняет заявку
func (s *TransactionService) RejectHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Reject)
}

// CancelHandler отменяет заявку
func (s *TransactionService) CancelHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Cancel)
}

// BeginHandler начинает сделку
func (s *TransactionService) BeginHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Begin)
}

// ConfirmReturnHandler подтверждает возврат объекта
func (s *TransactionService) ConfirmReturnHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.ConfirmReturn)
}

// CompleteHandler завершает сделку; владелец может передать {"confirm_return": true}
func (s *TransactionService) CompleteHandler(c fiber.Ctx) error {
	var payload struct {
		ConfirmReturn bool `json:"confirm_return"`
	}
	if len(c.Body()) > 0 {
		if err := middleware.BindBody(c, &payload); err != nil {
			return err
		}
	}

	return s.withRequest(c, func(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
		return s.Complete(ctx, actorID, id, payload.ConfirmReturn)
	})
}

// DisputeHandler открывает спор
func (s *TransactionService) DisputeHandler(c fiber.Ctx) error {
	return s.withRequest(c, s.Dispute)
}

func (s *TransactionService) withRequest(c fiber.Ctx, op func(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error)) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	r, err := op(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}
