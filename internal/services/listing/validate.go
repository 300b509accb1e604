package listing

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// ListingInput - данные объявления от владельца
type ListingInput struct {
	Name               string           `json:"name" validate:"required,max=200"`
	Description        string           `json:"description" validate:"required"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	LocalityID         uuid.UUID        `json:"locality_id"`
	Availability       string           `json:"availability" validate:"omitempty,oneof=PR AL IN PA TO"`
	RentalPricePerDay  *decimal.Decimal `json:"rental_price_per_day"`
	ExchangeConditions string           `json:"exchange_conditions"`
	Active             *bool            `json:"active"`
}

// ValidateListing проверяет правила объявления, не обращаясь к хранилищу,
// и возвращает нормализованные значения.
func ValidateListing(in ListingInput) (ListingInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ExchangeConditions = strings.TrimSpace(in.ExchangeConditions)

	if in.Name == "" {
		return in, models.NewValidationError("Название обязательно")
	}
	if in.Description == "" {
		return in, models.NewValidationError("Описание обязательно")
	}
	if in.LocalityID == uuid.Nil {
		return in, models.NewValidationError("Укажите населённый пункт")
	}

	if in.Availability == "" {
		in.Availability = string(models.AvailabilityLoan)
	}
	mode := models.AvailabilityMode(in.Availability)
	if !mode.Valid() {
		return in, models.NewValidationError("Неизвестный режим доступности")
	}

	if mode.ImpliesRental() {
		if in.RentalPricePerDay == nil {
			return in, models.NewValidationError("Для аренды нужна цена за день")
		}
		if !in.RentalPricePerDay.IsPositive() {
			return in, models.NewValidationError("Цена за день должна быть больше нуля")
		}
		rounded := in.RentalPricePerDay.Round(2)
		if rounded.GreaterThan(models.MaxAmount) {
			return in, models.NewValidationError("Цена за день не может превышать " + models.MaxAmount.String())
		}
		in.RentalPricePerDay = &rounded
	} else if in.RentalPricePerDay != nil {
		return in, models.NewValidationError("Цена за день указывается только для аренды")
	}

	if in.ExchangeConditions != "" && !mode.Allows(models.TransactionExchange) {
		return in, models.NewValidationError("Условия обмена указываются только для объектов, доступных для обмена")
	}
	return in, nil
}

// PhotoInput - фотография, уже загруженная клиентом в Cloudinary
type PhotoInput struct {
	URL                string          `json:"url" validate:"required,url"`
	PublicID           string          `json:"public_id" validate:"required"`
	Description        string          `json:"description" validate:"max=255"`
	CloudinaryResponse json.RawMessage `json:"cloudinary_response,omitempty"`
}
