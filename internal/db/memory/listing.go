package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

func (s *Store) CreateListing(ctx context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.localities[l.LocalityID]; !ok {
		return fmt.Errorf("%w: listings_locality_id_fkey", models.ErrInUse)
	}
	now := s.now()
	l.PublishedAt, l.UpdatedAt = now, now
	stored := *l
	stored.Photos = nil
	s.listings[l.ID] = stored
	return nil
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	l.Photos = s.photosOf(id)
	return &l, nil
}

func (s *Store) UpdateListing(ctx context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.listings[l.ID]
	if !ok {
		return models.ErrNoRecord
	}
	l.OwnerID = current.OwnerID
	l.PublishedAt = current.PublishedAt
	l.UpdatedAt = s.now()
	stored := *l
	stored.Photos = nil
	s.listings[l.ID] = stored
	return nil
}

func (s *Store) ListListingsByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Listing{}
	for _, l := range s.listings {
		if l.OwnerID != ownerID || (!l.Active && !includeInactive) {
			continue
		}
		l.Photos = s.photosOf(l.ID)
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (s *Store) AddListingPhoto(ctx context.Context, p *models.ListingPhoto) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[p.ListingID]; !ok {
		return fmt.Errorf("%w: listing_photos_listing_id_fkey", models.ErrInUse)
	}
	p.UploadedAt = s.now()
	s.photos[p.ID] = *p
	return nil
}

func (s *Store) GetListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) (*models.ListingPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[photoID]
	if !ok || p.ListingID != listingID {
		return nil, models.ErrNoRecord
	}
	return &p, nil
}

func (s *Store) DeleteListingPhoto(ctx context.Context, photoID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photoID]; !ok {
		return models.ErrNoRecord
	}
	delete(s.photos, photoID)
	return nil
}

func (s *Store) photosOf(listingID uuid.UUID) []models.ListingPhoto {
	out := []models.ListingPhoto{}
	for _, p := range s.photos {
		if p.ListingID == listingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out
}
