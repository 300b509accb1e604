package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest представляет заявку на заём, аренду или обмен объекта.
// Владелец объекта не хранится: он всегда берётся из объявления.
type TransactionRequest struct {
	ID               uuid.UUID           `json:"id"`
	ListingID        uuid.UUID           `json:"listing_id"`
	RequesterID      uuid.UUID           `json:"requester_id"`
	Type             TransactionType     `json:"type"`
	State            RequestState        `json:"state"`
	RequestedAt      time.Time           `json:"requested_at"`
	DesiredStart     *time.Time          `json:"desired_start,omitempty"`
	DesiredEnd       *time.Time          `json:"desired_end,omitempty"`
	Message          string              `json:"message,omitempty"`
	OfferedListingID *uuid.UUID          `json:"offered_listing_id,omitempty"`
	AgreedTotalCost  decimal.NullDecimal `json:"agreed_total_cost"`
	DecidedAt        *time.Time          `json:"decided_at,omitempty"`
	StartedAt        *time.Time          `json:"started_at,omitempty"`
	EndedAt          *time.Time          `json:"ended_at,omitempty"`
	ReturnConfirmed  bool                `json:"return_confirmed"`
}

// RequestRole фильтрует заявки относительно пользователя
type RequestRole string

const (
	RoleAll      RequestRole = "all"
	RoleIncoming RequestRole = "incoming" // заявки на мои объекты
	RoleOutgoing RequestRole = "outgoing" // мои заявки
)

// RequestFilter - параметры выборки заявок пользователя
type RequestFilter struct {
	Role  RequestRole
	State *RequestState
}
