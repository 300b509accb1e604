package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Rating - оценка, которую участник сделки ставит другому участнику
type Rating struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	RaterID   uuid.UUID `json:"rater_id"`
	RatedID   uuid.UUID `json:"rated_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingDirection фильтрует оценки пользователя
type RatingDirection string

const (
	RatingsAll      RatingDirection = "all"
	RatingsGiven    RatingDirection = "given"
	RatingsReceived RatingDirection = "received"
)
