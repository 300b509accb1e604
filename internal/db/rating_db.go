package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// CreateRating сохраняет оценку; повтор по (заявка, автор, получатель) даёт models.ErrDuplicate
func (s *Store) CreateRating(ctx context.Context, r *models.Rating) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO ratings (id, request_id, rater_id, rated_id, score, comment)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING created_at
	`, r.ID, r.RequestID, r.RaterID, r.RatedID, r.Score, r.Comment).Scan(&r.CreatedAt)
	return mapError(err)
}

// GetRating получает оценку по ID
func (s *Store) GetRating(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, request_id, rater_id, rated_id, score, comment, created_at
		FROM ratings WHERE id = $1
	`, id)
	if err != nil {
		return nil, mapError(err)
	}
	rating, err := pgx.CollectExactlyOneRow(rows, scanRating)
	if err != nil {
		return nil, mapError(err)
	}
	return &rating, nil
}

// UpdateRating обновляет балл и комментарий
func (s *Store) UpdateRating(ctx context.Context, r *models.Rating) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE ratings SET score = $2, comment = NULLIF($3, '') WHERE id = $1
	`, r.ID, r.Score, r.Comment)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// RatingExists проверяет, есть ли уже оценка в этом направлении
func (s *Store) RatingExists(ctx context.Context, requestID, raterID, ratedID uuid.UUID) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM ratings WHERE request_id = $1 AND rater_id = $2 AND rated_id = $3)
	`, requestID, raterID, ratedID).Scan(&exists)
	return exists, mapError(err)
}

// ListRatingsForUser возвращает оценки, выставленные (given) или полученные (received) пользователем
func (s *Store) ListRatingsForUser(ctx context.Context, userID uuid.UUID, direction models.RatingDirection) ([]models.Rating, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var clause string
	switch direction {
	case models.RatingsGiven:
		clause = "rater_id = $1"
	case models.RatingsReceived:
		clause = "rated_id = $1"
	default:
		clause = "(rater_id = $1 OR rated_id = $1)"
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, request_id, rater_id, rated_id, score, comment, created_at
		FROM ratings WHERE `+clause+`
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	ratings, err := pgx.CollectRows(rows, scanRating)
	return ratings, mapError(err)
}

// ListReceivedScores возвращает все баллы, полученные пользователем
func (s *Store) ListReceivedScores(ctx context.Context, userID uuid.UUID) ([]int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT score FROM ratings WHERE rated_id = $1`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	scores, err := pgx.CollectRows(rows, pgx.RowTo[int])
	return scores, mapError(err)
}

func scanRating(row pgx.CollectableRow) (models.Rating, error) {
	var r models.Rating
	var comment pgtype.Text
	err := row.Scan(&r.ID, &r.RequestID, &r.RaterID, &r.RatedID, &r.Score, &comment, &r.CreatedAt)
	r.Comment = comment.String
	return r, err
}
