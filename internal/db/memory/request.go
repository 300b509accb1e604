package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

func (s *Store) CreateRequest(ctx context.Context, r *models.TransactionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[r.ListingID]; !ok {
		return fmt.Errorf("%w: transaction_requests_listing_id_fkey", models.ErrInUse)
	}
	r.RequestedAt = s.now()
	s.requests[r.ID] = *r
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id uuid.UUID) (*models.TransactionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return &r, nil
}

// UpdateRequest повторяет условный UPDATE ... WHERE state = expected
func (s *Store) UpdateRequest(ctx context.Context, r *models.TransactionRequest, expected models.RequestState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[r.ID]
	if !ok {
		return models.ErrNoRecord
	}
	if current.State != expected {
		return models.ErrStaleState
	}
	if isActive(r.State) {
		for id, other := range s.requests {
			if id != r.ID && other.ListingID == r.ListingID && isActive(other.State) {
				return fmt.Errorf("%w: uq_requests_one_active_per_listing", models.ErrDuplicate)
			}
		}
	}

	current.State = r.State
	current.DecidedAt = r.DecidedAt
	current.StartedAt = r.StartedAt
	current.EndedAt = r.EndedAt
	current.ReturnConfirmed = r.ReturnConfirmed
	s.requests[r.ID] = current
	return nil
}

func (s *Store) CountActiveRequests(ctx context.Context, listingID, exclude uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for id, r := range s.requests {
		if id != exclude && r.ListingID == listingID && isActive(r.State) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListRequestsForUser(ctx context.Context, userID uuid.UUID, filter models.RequestFilter) ([]models.TransactionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TransactionRequest{}
	for _, r := range s.requests {
		incoming := s.listings[r.ListingID].OwnerID == userID
		outgoing := r.RequesterID == userID

		var match bool
		switch filter.Role {
		case models.RoleIncoming:
			match = incoming
		case models.RoleOutgoing:
			match = outgoing
		default:
			match = incoming || outgoing
		}
		if !match || (filter.State != nil && r.State != *filter.State) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func isActive(state models.RequestState) bool {
	return state == models.StateAccepted || state == models.StateInProgress
}
