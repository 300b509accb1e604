package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

const listingColumns = `id, owner_id, name, description, category_id, locality_id, availability,
	rental_price_per_day, exchange_conditions, published_at, updated_at, active`

// CreateListing сохраняет новое объявление
func (s *Store) CreateListing(ctx context.Context, l *models.Listing) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO listings (id, owner_id, name, description, category_id, locality_id, availability,
			rental_price_per_day, exchange_conditions, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		RETURNING published_at, updated_at
	`, l.ID, l.OwnerID, l.Name, l.Description, l.CategoryID, l.LocalityID, string(l.Availability),
		l.RentalPricePerDay, l.ExchangeConditions, l.Active).Scan(&l.PublishedAt, &l.UpdatedAt)
	return mapError(err)
}

// GetListing получает объявление вместе с фотографиями
func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	listing, err := pgx.CollectExactlyOneRow(rows, scanListing)
	if err != nil {
		return nil, mapError(err)
	}

	photos, err := s.listPhotos(ctx, []uuid.UUID{listing.ID})
	if err != nil {
		return nil, err
	}
	if p, ok := photos[listing.ID]; ok {
		listing.Photos = p
	}
	return &listing, nil
}

// UpdateListing обновляет изменяемые поля объявления
func (s *Store) UpdateListing(ctx context.Context, l *models.Listing) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.pool.QueryRow(ctx, `
		UPDATE listings
		SET name = $2, description = $3, category_id = $4, locality_id = $5, availability = $6,
			rental_price_per_day = $7, exchange_conditions = NULLIF($8, ''), active = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`, l.ID, l.Name, l.Description, l.CategoryID, l.LocalityID, string(l.Availability),
		l.RentalPricePerDay, l.ExchangeConditions, l.Active).Scan(&l.UpdatedAt)
	return mapError(err)
}

// ListListingsByOwner возвращает объявления пользователя, новые первыми
func (s *Store) ListListingsByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Listing, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE owner_id = $1 AND (active OR $2)
		ORDER BY published_at DESC
	`, ownerID, includeInactive)
	if err != nil {
		return nil, mapError(err)
	}
	listings, err := pgx.CollectRows(rows, scanListing)
	if err != nil {
		return nil, mapError(err)
	}
	if len(listings) == 0 {
		return listings, nil
	}

	ids := make([]uuid.UUID, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}
	photos, err := s.listPhotos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		if p, ok := photos[listings[i].ID]; ok {
			listings[i].Photos = p
		}
	}
	return listings, nil
}

// AddListingPhoto сохраняет фотографию объявления
func (s *Store) AddListingPhoto(ctx context.Context, p *models.ListingPhoto) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("ошибка сериализации метаданных: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO listing_photos (id, listing_id, url, preview_url, public_id, description, metadata)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)
		RETURNING uploaded_at
	`, p.ID, p.ListingID, p.URL, p.PreviewURL, p.PublicID, p.Description, metadata).Scan(&p.UploadedAt)
	return mapError(err)
}

// GetListingPhoto получает фотографию конкретного объявления
func (s *Store) GetListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) (*models.ListingPhoto, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, listing_id, url, preview_url, public_id, description, metadata, uploaded_at
		FROM listing_photos WHERE id = $1 AND listing_id = $2
	`, photoID, listingID)
	if err != nil {
		return nil, mapError(err)
	}
	photo, err := pgx.CollectExactlyOneRow(rows, scanPhoto)
	if err != nil {
		return nil, mapError(err)
	}
	return &photo, nil
}

// DeleteListingPhoto удаляет запись о фотографии
func (s *Store) DeleteListingPhoto(ctx context.Context, photoID uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM listing_photos WHERE id = $1`, photoID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func (s *Store) listPhotos(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]models.ListingPhoto, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, listing_id, url, preview_url, public_id, description, metadata, uploaded_at
		FROM listing_photos WHERE listing_id = ANY($1)
		ORDER BY uploaded_at
	`, listingIDs)
	if err != nil {
		return nil, mapError(err)
	}
	photos, err := pgx.CollectRows(rows, scanPhoto)
	if err != nil {
		return nil, mapError(err)
	}

	byListing := make(map[uuid.UUID][]models.ListingPhoto, len(listingIDs))
	for _, p := range photos {
		byListing[p.ListingID] = append(byListing[p.ListingID], p)
	}
	return byListing, nil
}

func scanListing(row pgx.CollectableRow) (models.Listing, error) {
	var l models.Listing
	var availability string
	var exchange pgtype.Text
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.CategoryID, &l.LocalityID, &availability,
		&l.RentalPricePerDay, &exchange, &l.PublishedAt, &l.UpdatedAt, &l.Active)
	l.Availability = models.AvailabilityMode(availability)
	l.ExchangeConditions = exchange.String
	l.Photos = []models.ListingPhoto{}
	return l, err
}

func scanPhoto(row pgx.CollectableRow) (models.ListingPhoto, error) {
	var p models.ListingPhoto
	var preview, description pgtype.Text
	var metadata []byte
	if err := row.Scan(&p.ID, &p.ListingID, &p.URL, &preview, &p.PublicID, &description, &metadata, &p.UploadedAt); err != nil {
		return p, err
	}
	p.PreviewURL = preview.String
	p.Description = description.String
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return p, fmt.Errorf("ошибка разбора метаданных фото: %w", err)
		}
	}
	return p, nil
}
