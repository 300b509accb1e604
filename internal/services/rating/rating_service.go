package rating

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// Repository - хранилище оценок
type Repository interface {
	CreateRating(ctx context.Context, r *models.Rating) error
	GetRating(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	UpdateRating(ctx context.Context, r *models.Rating) error
	RatingExists(ctx context.Context, requestID, raterID, ratedID uuid.UUID) (bool, error)
	ListRatingsForUser(ctx context.Context, userID uuid.UUID, direction models.RatingDirection) ([]models.Rating, error)
}

// RequestLookup читает заявку, к которой относится оценка
type RequestLookup interface {
	GetRequest(ctx context.Context, id uuid.UUID) (*models.TransactionRequest, error)
}

// ListingLookup определяет владельца объекта заявки
type ListingLookup interface {
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Recomputer пересчитывает репутацию оценённого пользователя
type Recomputer interface {
	Recompute(ctx context.Context, userID uuid.UUID) (float64, error)
}

// RatingService принимает и хранит оценки участников сделок
type RatingService struct {
	repo       Repository
	requests   RequestLookup
	listings   ListingLookup
	reputation Recomputer
}

// NewRatingService создает новый экземпляр RatingService
func NewRatingService(repo Repository, requests RequestLookup, listings ListingLookup, reputation Recomputer) *RatingService {
	return &RatingService{repo: repo, requests: requests, listings: listings, reputation: reputation}
}

// Submit проверяет и сохраняет оценку, затем пересчитывает репутацию оценённого
func (s *RatingService) Submit(ctx context.Context, raterID uuid.UUID, in SubmitInput) (*models.Rating, error) {
	if err := ValidateScore(in.Score); err != nil {
		return nil, err
	}

	request, err := s.requests.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, models.NotFoundOr(err, "Заявка не найдена")
	}
	listing, err := s.listings.GetListing(ctx, request.ListingID)
	if err != nil {
		return nil, models.NotFoundOr(err, "Объявление заявки не найдено")
	}

	if err := ValidateRatingParties(listing.OwnerID, request.RequesterID, raterID, in.RatedID); err != nil {
		return nil, err
	}

	exists, err := s.repo.RatingExists(ctx, request.ID, raterID, in.RatedID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflict("Вы уже оценили этого участника по этой сделке")
	}

	if request.State != models.StateCompleted {
		return nil, models.NewStateConflict("Оценить можно только завершённую сделку")
	}

	r := &models.Rating{
		ID:        uuid.New(),
		RequestID: request.ID,
		RaterID:   raterID,
		RatedID:   in.RatedID,
		Score:     in.Score,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.repo.CreateRating(ctx, r); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, &models.Error{Kind: models.KindConflict, Message: "Вы уже оценили этого участника по этой сделке", Cause: err}
		}
		if errors.Is(err, models.ErrInUse) {
			return nil, &models.Error{Kind: models.KindNotFound, Message: "Заявка или пользователь не найдены", Cause: err}
		}
		return nil, err
	}

	log.Infow("rating submitted", "rating_id", r.ID, "request_id", r.RequestID, "rater_id", raterID, "rated_id", r.RatedID, "score", r.Score)
	s.recompute(ctx, r.RatedID)
	return r, nil
}

// Update меняет оценку и комментарий; доступно только автору оценки
func (s *RatingService) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateInput) (*models.Rating, error) {
	if err := ValidateScore(in.Score); err != nil {
		return nil, err
	}

	r, err := s.repo.GetRating(ctx, id)
	if err != nil {
		return nil, models.NotFoundOr(err, "Оценка не найдена")
	}
	if r.RaterID != actorID {
		return nil, models.NewPermissionDenied("Изменить оценку может только её автор")
	}

	r.Score = in.Score
	r.Comment = strings.TrimSpace(in.Comment)
	if err := s.repo.UpdateRating(ctx, r); err != nil {
		return nil, models.NotFoundOr(err, "Оценка не найдена")
	}

	s.recompute(ctx, r.RatedID)
	return r, nil
}

// Get возвращает оценку её автору или оценённому
func (s *RatingService) Get(ctx context.Context, actorID, id uuid.UUID) (*models.Rating, error) {
	r, err := s.repo.GetRating(ctx, id)
	if err != nil {
		return nil, models.NotFoundOr(err, "Оценка не найдена")
	}
	if actorID != r.RaterID && actorID != r.RatedID {
		return nil, models.NewPermissionDenied("Оценка доступна только участникам")
	}
	return r, nil
}

// ListMine возвращает оценки пользователя: выставленные, полученные или все
func (s *RatingService) ListMine(ctx context.Context, userID uuid.UUID, direction string) ([]models.Rating, error) {
	d := models.RatingDirection(direction)
	switch d {
	case "":
		d = models.RatingsAll
	case models.RatingsAll, models.RatingsGiven, models.RatingsReceived:
	default:
		return nil, models.NewValidationError("direction: ожидается all, given или received")
	}
	return s.repo.ListRatingsForUser(ctx, userID, d)
}

// recompute обновляет репутацию; оценка уже сохранена, поэтому ошибка только логируется
func (s *RatingService) recompute(ctx context.Context, userID uuid.UUID) {
	if s.reputation == nil {
		return
	}
	if _, err := s.reputation.Recompute(ctx, userID); err != nil {
		log.Errorf("❌ Не удалось пересчитать репутацию %s: %v", userID, err)
	}
}
