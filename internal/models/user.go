package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя вместе с профилем
type User struct {
	ID                uuid.UUID  `json:"id"`
	Username          string     `json:"username,omitempty"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	AvatarURL         string     `json:"avatar_url,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	DefaultLocalityID *uuid.UUID `json:"default_locality_id,omitempty"`
	Reputation        float64    `json:"reputation"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	IsActive          bool       `json:"is_active"`
}

// PublicProfile - то, что видят другие пользователи
type PublicProfile struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Reputation float64   `json:"reputation"`
}

// Public возвращает публичную часть профиля
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		AvatarURL:  u.AvatarURL,
		Reputation: u.Reputation,
	}
}

// TelegramUser представляет данные пользователя из Telegram
type TelegramUser struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	PhotoURL     string
	IsPremium    bool
	LanguageCode string
	RawData      []byte
}
