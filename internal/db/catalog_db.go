package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// ListLocalities возвращает населённые пункты по алфавиту
func (s *Store) ListLocalities(ctx context.Context) ([]models.Locality, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, postal_code, country, active
		FROM localities ORDER BY name
	`)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, scanLocality)
}

// GetLocality получает населённый пункт по ID
func (s *Store) GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, postal_code, country, active
		FROM localities WHERE id = $1
	`, id)
	if err != nil {
		return nil, mapError(err)
	}
	loc, err := pgx.CollectExactlyOneRow(rows, scanLocality)
	if err != nil {
		return nil, mapError(err)
	}
	return &loc, nil
}

// CreateLocality сохраняет новый населённый пункт
func (s *Store) CreateLocality(ctx context.Context, loc *models.Locality) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO localities (id, name, postal_code, country, active)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	`, loc.ID, loc.Name, loc.PostalCode, loc.Country, loc.Active)
	return mapError(err)
}

// UpdateLocality обновляет населённый пункт
func (s *Store) UpdateLocality(ctx context.Context, loc *models.Locality) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE localities SET name = $2, postal_code = NULLIF($3, ''), country = $4, active = $5
		WHERE id = $1
	`, loc.ID, loc.Name, loc.PostalCode, loc.Country, loc.Active)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// DeleteLocality удаляет населённый пункт; объявления блокируют удаление
func (s *Store) DeleteLocality(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM localities WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// ListCategories возвращает категории по алфавиту
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetCategory получает категорию по ID
func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	cat, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		return nil, mapError(err)
	}
	return &cat, nil
}

// CreateCategory сохраняет новую категорию
func (s *Store) CreateCategory(ctx context.Context, cat *models.Category) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO categories (id, name, description) VALUES ($1, $2, NULLIF($3, ''))
	`, cat.ID, cat.Name, cat.Description)
	return mapError(err)
}

// UpdateCategory обновляет категорию
func (s *Store) UpdateCategory(ctx context.Context, cat *models.Category) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE categories SET name = $2, description = NULLIF($3, '') WHERE id = $1
	`, cat.ID, cat.Name, cat.Description)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// DeleteCategory удаляет категорию; у объявлений категория обнуляется
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func scanLocality(row pgx.CollectableRow) (models.Locality, error) {
	var loc models.Locality
	var postalCode pgtype.Text
	err := row.Scan(&loc.ID, &loc.Name, &postalCode, &loc.Country, &loc.Active)
	loc.PostalCode = postalCode.String
	return loc, err
}

func scanCategory(row pgx.CollectableRow) (models.Category, error) {
	var cat models.Category
	var description pgtype.Text
	err := row.Scan(&cat.ID, &cat.Name, &description)
	cat.Description = description.String
	return cat, err
}
