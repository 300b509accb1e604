package rating

import (
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// SubmitInput - новая оценка. Оценивающий берётся из токена.
type SubmitInput struct {
	RequestID uuid.UUID `json:"request_id" validate:"required"`
	RatedID   uuid.UUID `json:"rated_id" validate:"required"`
	Score     int       `json:"score" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=1000"`
}

// UpdateInput - изменение своей оценки
type UpdateInput struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ValidateScore проверяет диапазон оценки
func ValidateScore(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return models.NewValidationError("Оценка должна быть от 1 до 5")
	}
	return nil
}

// ValidateRatingParties проверяет, что оценивают друг друга ровно два участника заявки:
// владелец объекта и заявитель, в любом направлении.
func ValidateRatingParties(ownerID, requesterID, raterID, ratedID uuid.UUID) error {
	forward := raterID == ownerID && ratedID == requesterID
	backward := raterID == requesterID && ratedID == ownerID
	if !forward && !backward {
		return models.NewValidationError("Оценивать друг друга могут только участники сделки")
	}
	if raterID == ratedID {
		return models.NewValidationError("Нельзя оценить самого себя")
	}
	return nil
}
