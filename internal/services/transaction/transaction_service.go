package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/barrio-api/internal/events"
	"github.com/rajivgeraev/barrio-api/internal/models"
)

// Repository - хранилище заявок
type Repository interface {
	CreateRequest(ctx context.Context, r *models.TransactionRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.TransactionRequest, error)
	// UpdateRequest сохраняет заявку, только если её состояние всё ещё expected,
	// иначе возвращает models.ErrStaleState. Для отсутствующей заявки - models.ErrNoRecord.
	UpdateRequest(ctx context.Context, r *models.TransactionRequest, expected models.RequestState) error
	CountActiveRequests(ctx context.Context, listingID, exclude uuid.UUID) (int, error)
	ListRequestsForUser(ctx context.Context, userID uuid.UUID, filter models.RequestFilter) ([]models.TransactionRequest, error)
}

// ListingLookup отдаёт снимок объявления: владельца, активность, режим
type ListingLookup interface {
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Publisher доставляет события участникам заявки
type Publisher interface {
	PublishRequestEvent(ctx context.Context, event events.RequestEvent) error
}

// TransactionService ведёт жизненный цикл заявок
type TransactionService struct {
	repo      Repository
	listings  ListingLookup
	publisher Publisher
	now       func() time.Time
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(repo Repository, listings ListingLookup, publisher Publisher) *TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionService{repo: repo, listings: listings, publisher: publisher, now: time.Now}
}

type actorRole int

const (
	roleStranger actorRole = iota
	roleOwner
	roleRequester
)

// roleOf определяет роль пользователя в заявке. Владелец берётся из объявления.
func roleOf(actorID, ownerID uuid.UUID, r *models.TransactionRequest) actorRole {
	switch actorID {
	case ownerID:
		return roleOwner
	case r.RequesterID:
		return roleRequester
	default:
		return roleStranger
	}
}

// Create создаёт заявку в состоянии Pending от имени заявителя
func (s *TransactionService) Create(ctx context.Context, requesterID uuid.UUID, in CreateInput) (*models.TransactionRequest, error) {
	if err := ValidateCreateInput(in); err != nil {
		return nil, err
	}

	target, err := s.lookupListing(ctx, in.ListingID, "Объявление не найдено")
	if err != nil {
		return nil, err
	}
	var offered *models.Listing
	if in.OfferedListingID != nil {
		if offered, err = s.lookupListing(ctx, *in.OfferedListingID, "Предложенный объект не найден"); err != nil {
			return nil, err
		}
	}
	if err := ValidateAgainstListings(in, requesterID, target, offered); err != nil {
		return nil, err
	}

	r := &models.TransactionRequest{
		ID:               uuid.New(),
		ListingID:        target.ID,
		RequesterID:      requesterID,
		Type:             models.TransactionType(in.Type),
		State:            models.StatePending,
		DesiredStart:     in.DesiredStart,
		DesiredEnd:       in.DesiredEnd,
		Message:          trimMessage(in.Message),
		OfferedListingID: in.OfferedListingID,
	}
	switch {
	case in.AgreedTotalCost != nil:
		r.AgreedTotalCost = decimal.NullDecimal{Decimal: in.AgreedTotalCost.Round(2), Valid: true}
	case r.Type == models.TransactionRental:
		if cost, ok := RentalCost(target.RentalPricePerDay, in.DesiredStart, in.DesiredEnd); ok {
			if cost.GreaterThan(models.MaxAmount) {
				return nil, models.NewValidationError("Слишком долгий срок аренды: стоимость превышает " + models.MaxAmount.String())
			}
			r.AgreedTotalCost = decimal.NullDecimal{Decimal: cost, Valid: true}
		}
	}

	if err := s.repo.CreateRequest(ctx, r); err != nil {
		if errors.Is(err, models.ErrInUse) {
			return nil, &models.Error{Kind: models.KindNotFound, Message: "Объявление или пользователь не найдены", Cause: err}
		}
		return nil, err
	}

	log.Infow("request created", "request_id", r.ID, "listing_id", r.ListingID, "requester_id", requesterID, "type", r.Type)
	s.notify(ctx, events.EventRequestCreated, r, target.OwnerID, requesterID)
	return r, nil
}

// Get возвращает заявку одному из её участников
func (s *TransactionService) Get(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) == roleStranger {
		return nil, models.NewPermissionDenied("Заявка доступна только её участникам")
	}
	return r, nil
}

// ListMine возвращает заявки пользователя: входящие, исходящие или все
func (s *TransactionService) ListMine(ctx context.Context, userID uuid.UUID, role, state string) ([]models.TransactionRequest, error) {
	filter := models.RequestFilter{Role: models.RequestRole(role)}
	switch filter.Role {
	case "":
		filter.Role = models.RoleAll
	case models.RoleAll, models.RoleIncoming, models.RoleOutgoing:
	default:
		return nil, models.NewValidationError("role: ожидается all, incoming или outgoing")
	}
	if state != "" && state != "all" {
		st := models.RequestState(state)
		if !st.Valid() {
			return nil, models.NewValidationError("Неизвестное состояние заявки")
		}
		filter.State = &st
	}
	return s.repo.ListRequestsForUser(ctx, userID, filter)
}

// Accept - владелец принимает заявку
func (s *TransactionService) Accept(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) != roleOwner {
		return nil, models.NewPermissionDenied("Принять заявку может только владелец объекта")
	}
	if err := checkTransition(r.State, models.StateAccepted); err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, models.NewStateConflict("Объявление снято с публикации")
	}

	active, err := s.repo.CountActiveRequests(ctx, r.ListingID, r.ID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, models.NewStateConflict("По этому объекту уже есть принятая заявка")
	}

	now := s.now()
	r.DecidedAt = &now
	return s.commit(ctx, actorID, listing, r, models.StateAccepted, events.EventRequestAccepted)
}

// Reject - владелец отклоняет заявку
func (s *TransactionService) Reject(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) != roleOwner {
		return nil, models.NewPermissionDenied("Отклонить заявку может только владелец объекта")
	}
	if err := checkTransition(r.State, models.StateRejected); err != nil {
		return nil, err
	}

	now := s.now()
	r.DecidedAt = &now
	return s.commit(ctx, actorID, listing, r, models.StateRejected, events.EventRequestRejected)
}

// Cancel отменяет заявку; итоговое состояние зависит от того, кто отменяет
func (s *TransactionService) Cancel(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var to models.RequestState
	switch roleOf(actorID, listing.OwnerID, r) {
	case roleOwner:
		to = models.StateCancelledByOwner
	case roleRequester:
		to = models.StateCancelledByRequester
	default:
		return nil, models.NewPermissionDenied("Отменить заявку может только её участник")
	}
	if err := checkTransition(r.State, to); err != nil {
		return nil, err
	}
	return s.commit(ctx, actorID, listing, r, to, events.EventRequestCancelled)
}

// Begin - владелец передаёт объект, сделка начинается
func (s *TransactionService) Begin(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) != roleOwner {
		return nil, models.NewPermissionDenied("Начать сделку может только владелец объекта")
	}
	if err := checkTransition(r.State, models.StateInProgress); err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, models.NewStateConflict("Объявление снято с публикации")
	}

	now := s.now()
	r.StartedAt = &now
	return s.commit(ctx, actorID, listing, r, models.StateInProgress, events.EventRequestStarted)
}

// ConfirmReturn - владелец подтверждает возврат объекта по займу или аренде
func (s *TransactionService) ConfirmReturn(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) != roleOwner {
		return nil, models.NewPermissionDenied("Подтвердить возврат может только владелец объекта")
	}
	if r.State != models.StateInProgress {
		return nil, models.NewStateConflict("Возврат подтверждается только для активной сделки")
	}
	if !r.Type.ReturnsItem() {
		return nil, models.NewValidationError("При обмене возврат не предусмотрен")
	}

	r.ReturnConfirmed = true
	return s.commit(ctx, actorID, listing, r, models.StateInProgress, events.EventRequestReturnConfirmed)
}

// Complete завершает сделку. Заём и аренда требуют подтверждённого возврата:
// владелец может подтвердить его этим же вызовом.
func (s *TransactionService) Complete(ctx context.Context, actorID, id uuid.UUID, confirmReturn bool) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role := roleOf(actorID, listing.OwnerID, r)
	if role == roleStranger {
		return nil, models.NewPermissionDenied("Завершить сделку может только её участник")
	}
	if err := checkTransition(r.State, models.StateCompleted); err != nil {
		return nil, err
	}

	if r.Type.ReturnsItem() && !r.ReturnConfirmed {
		if !confirmReturn || role != roleOwner {
			return nil, models.NewStateConflict("Владелец ещё не подтвердил возврат объекта")
		}
		r.ReturnConfirmed = true
	}

	now := s.now()
	r.EndedAt = &now
	return s.commit(ctx, actorID, listing, r, models.StateCompleted, events.EventRequestCompleted)
}

// Dispute - любой участник открывает спор по активной сделке
func (s *TransactionService) Dispute(ctx context.Context, actorID, id uuid.UUID) (*models.TransactionRequest, error) {
	r, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if roleOf(actorID, listing.OwnerID, r) == roleStranger {
		return nil, models.NewPermissionDenied("Открыть спор может только участник сделки")
	}
	if err := checkTransition(r.State, models.StateDisputed); err != nil {
		return nil, err
	}
	return s.commit(ctx, actorID, listing, r, models.StateDisputed, events.EventRequestDisputed)
}

// load читает заявку и объявление, из которого берётся владелец
func (s *TransactionService) load(ctx context.Context, id uuid.UUID) (*models.TransactionRequest, *models.Listing, error) {
	r, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, nil, models.NotFoundOr(err, "Заявка не найдена")
	}
	listing, err := s.lookupListing(ctx, r.ListingID, "Объявление заявки не найдено")
	if err != nil {
		return nil, nil, err
	}
	return r, listing, nil
}

func (s *TransactionService) lookupListing(ctx context.Context, id uuid.UUID, notFound string) (*models.Listing, error) {
	listing, err := s.listings.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) || models.IsKind(err, models.KindNotFound) {
			return nil, &models.Error{Kind: models.KindNotFound, Message: notFound, Cause: err}
		}
		return nil, err
	}
	return listing, nil
}

// commit сохраняет переход условным обновлением: если состояние успело
// измениться, вызывающий получает StateConflict и может перечитать заявку.
func (s *TransactionService) commit(ctx context.Context, actorID uuid.UUID, listing *models.Listing, r *models.TransactionRequest, to models.RequestState, event events.EventType) (*models.TransactionRequest, error) {
	from := r.State
	r.State = to

	if err := s.repo.UpdateRequest(ctx, r, from); err != nil {
		switch {
		case errors.Is(err, models.ErrStaleState):
			return nil, &models.Error{Kind: models.KindStateConflict, Message: "Заявка была изменена, обновите данные", Cause: err}
		case errors.Is(err, models.ErrDuplicate):
			return nil, &models.Error{Kind: models.KindStateConflict, Message: "По этому объекту уже есть принятая заявка", Cause: err}
		case errors.Is(err, models.ErrNoRecord):
			return nil, &models.Error{Kind: models.KindNotFound, Message: "Заявка не найдена", Cause: err}
		}
		return nil, err
	}

	log.Infow("request transition", "request_id", r.ID, "actor_id", actorID, "from", from.Name(), "to", to.Name())
	s.notify(ctx, event, r, listing.OwnerID, actorID)
	return r, nil
}

// notify публикует событие второму участнику; ошибка доставки только логируется
func (s *TransactionService) notify(ctx context.Context, eventType events.EventType, r *models.TransactionRequest, ownerID, actorID uuid.UUID) {
	recipients := make([]uuid.UUID, 0, 2)
	for _, id := range []uuid.UUID{ownerID, r.RequesterID} {
		if id != actorID {
			recipients = append(recipients, id)
		}
	}

	event := events.RequestEvent{
		Type:       eventType,
		RequestID:  r.ID,
		ListingID:  r.ListingID,
		ActorID:    actorID,
		State:      r.State,
		Recipients: recipients,
		Timestamp:  s.now(),
	}
	if err := s.publisher.PublishRequestEvent(ctx, event); err != nil {
		log.Warnf("⚠️ Не удалось опубликовать событие %s для заявки %s: %v", eventType, r.ID, err)
	}
}
