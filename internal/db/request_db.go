package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

const requestColumns = `r.id, r.listing_id, r.requester_id, r.type, r.state, r.requested_at,
	r.desired_start, r.desired_end, r.message, r.offered_listing_id, r.agreed_total_cost,
	r.decided_at, r.started_at, r.ended_at, r.return_confirmed`

// CreateRequest сохраняет новую заявку
func (s *Store) CreateRequest(ctx context.Context, r *models.TransactionRequest) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO transaction_requests (id, listing_id, requester_id, type, state, desired_start,
			desired_end, message, offered_listing_id, agreed_total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
		RETURNING requested_at
	`, r.ID, r.ListingID, r.RequesterID, string(r.Type), string(r.State), r.DesiredStart,
		r.DesiredEnd, r.Message, r.OfferedListingID, r.AgreedTotalCost).Scan(&r.RequestedAt)
	return mapError(err)
}

// GetRequest получает заявку по ID
func (s *Store) GetRequest(ctx context.Context, id uuid.UUID) (*models.TransactionRequest, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+requestColumns+` FROM transaction_requests r WHERE r.id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	req, err := pgx.CollectExactlyOneRow(rows, scanRequest)
	if err != nil {
		return nil, mapError(err)
	}
	return &req, nil
}

// UpdateRequest сохраняет переход заявки, только если её состояние всё ещё expected.
// Если строка за это время изменилась, возвращается models.ErrStaleState,
// если её нет совсем - models.ErrNoRecord.
func (s *Store) UpdateRequest(ctx context.Context, r *models.TransactionRequest, expected models.RequestState) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE transaction_requests
		SET state = $3, decided_at = $4, started_at = $5, ended_at = $6, return_confirmed = $7
		WHERE id = $1 AND state = $2
	`, r.ID, string(expected), string(r.State), r.DecidedAt, r.StartedAt, r.EndedAt, r.ReturnConfirmed)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transaction_requests WHERE id = $1)`, r.ID).Scan(&exists)
		if err != nil {
			return mapError(err)
		}
		if !exists {
			return models.ErrNoRecord
		}
		return models.ErrStaleState
	}
	return nil
}

// CountActiveRequests считает принятые и активные заявки на объект, кроме exclude
func (s *Store) CountActiveRequests(ctx context.Context, listingID, exclude uuid.UUID) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transaction_requests
		WHERE listing_id = $1 AND id <> $2 AND state IN ($3, $4)
	`, listingID, exclude, string(models.StateAccepted), string(models.StateInProgress)).Scan(&count)
	return count, mapError(err)
}

// ListRequestsForUser возвращает заявки, где пользователь - заявитель или владелец объекта
func (s *Store) ListRequestsForUser(ctx context.Context, userID uuid.UUID, filter models.RequestFilter) ([]models.TransactionRequest, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var roleClause string
	switch filter.Role {
	case models.RoleIncoming:
		roleClause = "l.owner_id = $1"
	case models.RoleOutgoing:
		roleClause = "r.requester_id = $1"
	default:
		roleClause = "(l.owner_id = $1 OR r.requester_id = $1)"
	}

	var state pgtype.Text
	if filter.State != nil {
		state = pgtype.Text{String: string(*filter.State), Valid: true}
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM transaction_requests r
		JOIN listings l ON l.id = r.listing_id
		WHERE `+roleClause+` AND ($2::text IS NULL OR r.state::text = $2::text)
		ORDER BY r.requested_at DESC
	`, userID, state)
	if err != nil {
		return nil, mapError(err)
	}
	requests, err := pgx.CollectRows(rows, scanRequest)
	return requests, mapError(err)
}

func scanRequest(row pgx.CollectableRow) (models.TransactionRequest, error) {
	var r models.TransactionRequest
	var reqType, state string
	var message pgtype.Text
	err := row.Scan(&r.ID, &r.ListingID, &r.RequesterID, &reqType, &state, &r.RequestedAt,
		&r.DesiredStart, &r.DesiredEnd, &message, &r.OfferedListingID, &r.AgreedTotalCost,
		&r.DecidedAt, &r.StartedAt, &r.EndedAt, &r.ReturnConfirmed)
	r.Type = models.TransactionType(reqType)
	r.State = models.RequestState(state)
	r.Message = message.String
	return r, err
}
