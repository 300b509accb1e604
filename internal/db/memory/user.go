package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

func (s *Store) UpsertTelegramUser(ctx context.Context, tg models.TelegramUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id, ok := s.telegram[tg.TelegramID]; ok {
		u := s.users[id]
		u.LastLoginAt = &now
		s.users[id] = u
		return &u, nil
	}

	u := models.User{
		ID:          uuid.New(),
		Username:    tg.Username,
		FirstName:   tg.FirstName,
		LastName:    tg.LastName,
		AvatarURL:   tg.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: &now,
		IsActive:    true,
	}
	s.users[u.ID] = u
	s.telegram[tg.TelegramID] = u.ID
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return &u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[u.ID]
	if !ok {
		return models.ErrNoRecord
	}
	current.Phone = u.Phone
	current.DefaultLocalityID = u.DefaultLocalityID
	current.UpdatedAt = s.now()
	s.users[u.ID] = current
	u.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *Store) SetReputation(ctx context.Context, userID uuid.UUID, reputation float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.ErrNoRecord
	}
	u.Reputation = reputation
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return nil
}
