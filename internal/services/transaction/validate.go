package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// CreateInput - данные новой заявки. Заявитель берётся из токена, состояние всегда Pending.
type CreateInput struct {
	ListingID        uuid.UUID        `json:"listing_id"`
	Type             string           `json:"type" validate:"required,oneof=PR AL IN"`
	DesiredStart     *time.Time       `json:"desired_start"`
	DesiredEnd       *time.Time       `json:"desired_end"`
	Message          string           `json:"message" validate:"max=2000"`
	OfferedListingID *uuid.UUID       `json:"offered_listing_id"`
	AgreedTotalCost  *decimal.Decimal `json:"agreed_total_cost"`
	State            string           `json:"state"`
}

// ValidateCreateInput проверяет входные данные, которые не требуют обращения к хранилищу
func ValidateCreateInput(in CreateInput) error {
	if in.State != "" {
		return models.NewValidationError("Состояние новой заявки задаётся сервером")
	}
	if in.ListingID == uuid.Nil {
		return models.NewValidationError("Укажите объявление")
	}

	txType := models.TransactionType(in.Type)
	if !txType.Valid() {
		return models.NewValidationError("Неизвестный тип заявки")
	}

	if in.DesiredStart != nil && in.DesiredEnd != nil && in.DesiredEnd.Before(*in.DesiredStart) {
		return models.NewValidationError("Дата окончания раньше даты начала")
	}

	if in.OfferedListingID != nil {
		if txType != models.TransactionExchange {
			return models.NewValidationError("Объект для обмена указывается только в заявке на обмен")
		}
		if *in.OfferedListingID == in.ListingID {
			return models.NewValidationError("Нельзя предложить в обмен тот же объект")
		}
	}

	if in.AgreedTotalCost != nil {
		if txType != models.TransactionRental {
			return models.NewValidationError("Стоимость указывается только для аренды")
		}
		if in.AgreedTotalCost.IsNegative() {
			return models.NewValidationError("Стоимость не может быть отрицательной")
		}
		if in.AgreedTotalCost.Round(2).GreaterThan(models.MaxAmount) {
			return models.NewValidationError("Стоимость не может превышать " + models.MaxAmount.String())
		}
	}
	return nil
}

// ValidateAgainstListings проверяет заявку относительно целевого и предложенного объявлений.
// offered равен nil, если объект для обмена не указан.
func ValidateAgainstListings(in CreateInput, requesterID uuid.UUID, target, offered *models.Listing) error {
	if !target.Active {
		return models.NewValidationError("Объявление неактивно")
	}
	if target.OwnerID == requesterID {
		return models.NewValidationError("Нельзя отправить заявку на собственный объект")
	}

	txType := models.TransactionType(in.Type)
	if !target.Availability.Allows(txType) {
		return models.NewValidationError("Объект недоступен для такого типа сделки")
	}

	if offered != nil {
		if offered.OwnerID != requesterID {
			return models.NewValidationError("Предложить в обмен можно только свой объект")
		}
		if !offered.Active {
			return models.NewValidationError("Предложенный объект неактивен")
		}
	}
	return nil
}

// RentalCost считает стоимость аренды: цена за день * число дней включительно.
// false, если посчитать нельзя.
func RentalCost(pricePerDay decimal.NullDecimal, start, end *time.Time) (decimal.Decimal, bool) {
	if !pricePerDay.Valid || start == nil || end == nil || end.Before(*start) {
		return decimal.Decimal{}, false
	}
	days := daysInclusive(*start, *end)
	return pricePerDay.Decimal.Mul(decimal.NewFromInt(days)).Round(2), true
}

func daysInclusive(start, end time.Time) int64 {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return (e.Unix()-s.Unix())/86400 + 1
}

func trimMessage(msg string) string {
	return strings.TrimSpace(msg)
}
