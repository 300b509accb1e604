package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/rajivgeraev/barrio-api/internal/config"
	"github.com/rajivgeraev/barrio-api/internal/models"
	"github.com/rajivgeraev/barrio-api/internal/utils"
)

// UserRepository - хранилище пользователей
type UserRepository interface {
	UpsertTelegramUser(ctx context.Context, tg models.TelegramUser) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
}

// LocalityLookup проверяет населённый пункт по умолчанию
type LocalityLookup interface {
	GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error)
}

// ProfileInput - изменяемые поля профиля
type ProfileInput struct {
	Phone             string     `json:"phone" validate:"omitempty,max=20"`
	DefaultLocalityID *uuid.UUID `json:"default_locality_id"`
}

// AuthService – структура для обработки авторизации и профиля
type AuthService struct {
	cfg        *config.Config
	users      UserRepository
	localities LocalityLookup
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, users UserRepository, localities LocalityLookup, jwtService *utils.JWTService) *AuthService {
	return &AuthService{
		cfg:        cfg,
		users:      users,
		localities: localities,
		jwtService: jwtService,
	}
}

// GetJWTService возвращает сервис токенов для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// Login проверяет initData от Telegram, сохраняет пользователя и выдаёт JWT
func (s *AuthService) Login(ctx context.Context, rawInitData string) (string, *models.User, error) {
	// Проверяем initData
	if err := initdata.Validate(rawInitData, s.cfg.TelegramBotToken, s.cfg.TelegramInitTTL); err != nil {
		log.Warnf("⚠️ Неверные данные Telegram: %v", err)
		return "", nil, fiber.NewError(fiber.StatusUnauthorized, "Неверные данные Telegram")
	}

	// Парсим данные
	data, err := initdata.Parse(rawInitData)
	if err != nil {
		return "", nil, models.NewValidationError("Не удалось разобрать initData")
	}
	if data.User.ID == 0 {
		return "", nil, models.NewValidationError("В initData нет пользователя")
	}

	rawUser, err := json.Marshal(data.User)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.UpsertTelegramUser(ctx, models.TelegramUser{
		TelegramID:   data.User.ID,
		Username:     data.User.Username,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		PhotoURL:     data.User.PhotoURL,
		IsPremium:    data.User.IsPremium,
		LanguageCode: data.User.LanguageCode,
		RawData:      rawUser,
	})
	if err != nil {
		return "", nil, err
	}

	// Генерируем JWT
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	log.Infow("user logged in", "user_id", user.ID, "telegram_id", data.User.ID)
	return token, user, nil
}

// Profile возвращает полный профиль пользователя
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, models.NotFoundOr(err, "Пользователь не найден")
	}
	return user, nil
}

// UpdateProfile меняет телефон и населённый пункт по умолчанию
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, models.NotFoundOr(err, "Пользователь не найден")
	}

	if in.DefaultLocalityID != nil {
		if _, err := s.localities.GetLocality(ctx, *in.DefaultLocalityID); err != nil {
			return nil, models.NotFoundOr(err, "Населённый пункт не найден")
		}
	}

	user.Phone = strings.TrimSpace(in.Phone)
	user.DefaultLocalityID = in.DefaultLocalityID
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, models.NotFoundOr(err, "Пользователь не найден")
	}
	return user, nil
}
