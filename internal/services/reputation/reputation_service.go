package reputation

import (
	"context"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// Store - источник полученных оценок и место хранения репутации
type Store interface {
	ListReceivedScores(ctx context.Context, userID uuid.UUID) ([]int, error)
	SetReputation(ctx context.Context, userID uuid.UUID, reputation float64) error
}

// UserReader читает профиль пользователя
type UserReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Cache - кеш последних посчитанных значений
type Cache interface {
	GetReputation(ctx context.Context, userID uuid.UUID) (float64, bool, error)
	SetReputation(ctx context.Context, userID uuid.UUID, reputation float64) error
}

// ReputationService пересчитывает и отдаёт репутацию пользователей
type ReputationService struct {
	store Store
	users UserReader
	cache Cache
}

// NewReputationService создает новый экземпляр ReputationService. cache может быть nil.
func NewReputationService(store Store, users UserReader, cache Cache) *ReputationService {
	return &ReputationService{store: store, users: users, cache: cache}
}

// Mean - среднее арифметическое оценок, 0 для пустого списка
func Mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// Recompute считает репутацию заново по всем полученным оценкам и записывает её в профиль.
// Повторный вызов без новых оценок даёт то же значение; при гонке побеждает последняя запись.
func (s *ReputationService) Recompute(ctx context.Context, userID uuid.UUID) (float64, error) {
	scores, err := s.store.ListReceivedScores(ctx, userID)
	if err != nil {
		return 0, err
	}

	value := Mean(scores)
	if err := s.store.SetReputation(ctx, userID, value); err != nil {
		return 0, models.NotFoundOr(err, "Пользователь не найден")
	}

	if s.cache != nil {
		if err := s.cache.SetReputation(ctx, userID, value); err != nil {
			log.Warnf("⚠️ Не удалось закешировать репутацию %s: %v", userID, err)
		}
	}

	log.Debugw("reputation recomputed", "user_id", userID, "ratings", len(scores), "reputation", value)
	return value, nil
}

// Reputation возвращает репутацию из кеша, а при промахе из профиля
func (s *ReputationService) Reputation(ctx context.Context, userID uuid.UUID) (float64, error) {
	if s.cache != nil {
		value, found, err := s.cache.GetReputation(ctx, userID)
		if err != nil {
			log.Warnf("⚠️ Ошибка чтения репутации из кеша: %v", err)
		} else if found {
			return value, nil
		}
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return 0, models.NotFoundOr(err, "Пользователь не найден")
	}
	return user.Reputation, nil
}

// PublicProfile возвращает публичный профиль с актуальной репутацией
func (s *ReputationService) PublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, models.NotFoundOr(err, "Пользователь не найден")
	}

	profile := user.Public()
	if value, err := s.Reputation(ctx, userID); err == nil {
		profile.Reputation = value
	}
	return &profile, nil
}
