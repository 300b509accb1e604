package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

func (s *Store) CreateRating(ctx context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[r.RequestID]; !ok {
		return fmt.Errorf("%w: ratings_request_id_fkey", models.ErrInUse)
	}
	if s.ratingExists(r.RequestID, r.RaterID, r.RatedID) {
		return fmt.Errorf("%w: uq_rating_per_direction", models.ErrDuplicate)
	}
	r.CreatedAt = s.now()
	s.ratings[r.ID] = *r
	return nil
}

func (s *Store) GetRating(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ratings[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return &r, nil
}

func (s *Store) UpdateRating(ctx context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.ratings[r.ID]
	if !ok {
		return models.ErrNoRecord
	}
	current.Score = r.Score
	current.Comment = r.Comment
	s.ratings[r.ID] = current
	return nil
}

func (s *Store) RatingExists(ctx context.Context, requestID, raterID, ratedID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratingExists(requestID, raterID, ratedID), nil
}

func (s *Store) ListRatingsForUser(ctx context.Context, userID uuid.UUID, direction models.RatingDirection) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Rating{}
	for _, r := range s.ratings {
		given, received := r.RaterID == userID, r.RatedID == userID
		switch direction {
		case models.RatingsGiven:
			if !given {
				continue
			}
		case models.RatingsReceived:
			if !received {
				continue
			}
		default:
			if !given && !received {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListReceivedScores(ctx context.Context, userID uuid.UUID) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scores []int
	for _, r := range s.ratings {
		if r.RatedID == userID {
			scores = append(scores, r.Score)
		}
	}
	return scores, nil
}

func (s *Store) ratingExists(requestID, raterID, ratedID uuid.UUID) bool {
	for _, r := range s.ratings {
		if r.RequestID == requestID && r.RaterID == raterID && r.RatedID == ratedID {
			return true
		}
	}
	return false
}
