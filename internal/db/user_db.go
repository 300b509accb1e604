package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

const userColumns = `id, username, first_name, last_name, avatar_url, phone, default_locality_id,
	reputation, created_at, updated_at, last_login_at, is_active`

// UpsertTelegramUser создает нового пользователя через Telegram или обновляет существующего
func (s *Store) UpsertTelegramUser(ctx context.Context, tg models.TelegramUser) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Начинаем транзакцию
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx) // откатываем транзакцию в случае ошибки

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT user_id FROM telegram_users WHERE telegram_id = $1`, tg.TelegramID).Scan(&userID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Пользователь не существует, создаем нового
		err = tx.QueryRow(ctx, `
			INSERT INTO users (first_name, last_name, username, avatar_url, last_login_at)
			VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
			RETURNING id
		`, tg.FirstName, tg.LastName, tg.Username, tg.PhotoURL).Scan(&userID)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании пользователя: %w", mapError(err))
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO telegram_users (user_id, telegram_id, username, first_name, last_name, photo_url,
				is_premium, language_code, raw_data)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, userID, tg.TelegramID, tg.Username, tg.FirstName, tg.LastName, tg.PhotoURL,
			tg.IsPremium, tg.LanguageCode, tg.RawData)
		if err != nil {
			return nil, fmt.Errorf("ошибка при создании Telegram пользователя: %w", mapError(err))
		}
	case err != nil:
		return nil, fmt.Errorf("ошибка при проверке существования пользователя Telegram: %w", err)
	default:
		// Обновляем время входа и данные Telegram у существующего пользователя
		if _, err = tx.Exec(ctx, `
			UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = $1
		`, userID); err != nil {
			return nil, fmt.Errorf("ошибка при обновлении времени входа пользователя: %w", err)
		}

		if _, err = tx.Exec(ctx, `
			UPDATE telegram_users
			SET username = $1, first_name = $2, last_name = $3, photo_url = $4,
				is_premium = $5, language_code = $6, raw_data = $7, updated_at = CURRENT_TIMESTAMP
			WHERE telegram_id = $8
		`, tg.Username, tg.FirstName, tg.LastName, tg.PhotoURL, tg.IsPremium, tg.LanguageCode,
			tg.RawData, tg.TelegramID); err != nil {
			return nil, fmt.Errorf("ошибка при обновлении Telegram пользователя: %w", err)
		}
	}

	rows, err := tx.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", mapError(err))
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return &user, nil
}

// GetUser получает пользователя по ID
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// UpdateProfile сохраняет телефон и населённый пункт по умолчанию
func (s *Store) UpdateProfile(ctx context.Context, u *models.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		UPDATE users SET phone = NULLIF($2, ''), default_locality_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`, u.ID, u.Phone, u.DefaultLocalityID).Scan(&u.UpdatedAt)
	return mapError(err)
}

// SetReputation записывает пересчитанную репутацию в профиль
func (s *Store) SetReputation(ctx context.Context, userID uuid.UUID, reputation float64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET reputation = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`, userID, reputation)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	var username, firstName, lastName, avatarURL, phone pgtype.Text
	err := row.Scan(&u.ID, &username, &firstName, &lastName, &avatarURL, &phone, &u.DefaultLocalityID,
		&u.Reputation, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt, &u.IsActive)

	// Преобразуем nullable поля
	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.AvatarURL = avatarURL.String
	u.Phone = phone.String
	return u, err
}
