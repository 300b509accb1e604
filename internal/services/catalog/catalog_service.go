package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

const (
	localitiesKey = "catalog:localities"
	categoriesKey = "catalog:categories"
)

// Repository - хранилище справочников
type Repository interface {
	ListLocalities(ctx context.Context) ([]models.Locality, error)
	GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error)
	CreateLocality(ctx context.Context, loc *models.Locality) error
	UpdateLocality(ctx context.Context, loc *models.Locality) error
	DeleteLocality(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// Cache - кеш списков справочников
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// LocalityInput - данные для создания или изменения населённого пункта
type LocalityInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=10"`
	Country    string `json:"country" validate:"omitempty,max=50"`
	Active     *bool  `json:"active"`
}

// CategoryInput - данные для создания или изменения категории
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CatalogService управляет населёнными пунктами и категориями
type CatalogService struct {
	repo  Repository
	cache Cache
}

// NewCatalogService создает новый экземпляр CatalogService. cache может быть nil.
func NewCatalogService(repo Repository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// ListLocalities возвращает населённые пункты, по возможности из кеша
func (s *CatalogService) ListLocalities(ctx context.Context) ([]models.Locality, error) {
	var localities []models.Locality
	if s.fromCache(ctx, localitiesKey, &localities) {
		return localities, nil
	}

	localities, err := s.repo.ListLocalities(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, localitiesKey, localities)
	return localities, nil
}

// GetLocality возвращает населённый пункт
func (s *CatalogService) GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error) {
	loc, err := s.repo.GetLocality(ctx, id)
	if err != nil {
		return nil, models.NotFoundOr(err, "Населённый пункт не найден")
	}
	return loc, nil
}

// CreateLocality добавляет населённый пункт
func (s *CatalogService) CreateLocality(ctx context.Context, in LocalityInput) (*models.Locality, error) {
	loc := &models.Locality{ID: uuid.New(), Active: true}
	if err := applyLocality(loc, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreateLocality(ctx, loc); err != nil {
		return nil, storeError(err, "Населённый пункт с таким названием уже существует")
	}
	s.invalidate(ctx, localitiesKey)
	return loc, nil
}

// UpdateLocality изменяет населённый пункт
func (s *CatalogService) UpdateLocality(ctx context.Context, id uuid.UUID, in LocalityInput) (*models.Locality, error) {
	loc, err := s.GetLocality(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLocality(loc, in); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLocality(ctx, loc); err != nil {
		return nil, storeError(err, "Населённый пункт с таким названием уже существует")
	}
	s.invalidate(ctx, localitiesKey)
	return loc, nil
}

// DeleteLocality удаляет населённый пункт, если на него не ссылаются объявления
func (s *CatalogService) DeleteLocality(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLocality(ctx, id); err != nil {
		if errors.Is(err, models.ErrInUse) {
			return &models.Error{Kind: models.KindConflict, Message: "Населённый пункт используется в объявлениях", Cause: err}
		}
		return models.NotFoundOr(err, "Населённый пункт не найден")
	}
	s.invalidate(ctx, localitiesKey)
	return nil
}

// ListCategories возвращает категории, по возможности из кеша
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.fromCache(ctx, categoriesKey, &categories) {
		return categories, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, categoriesKey, categories)
	return categories, nil
}

// GetCategory возвращает категорию
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, models.NotFoundOr(err, "Категория не найдена")
	}
	return c, nil
}

// CreateCategory добавляет категорию
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{ID: uuid.New()}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, storeError(err, "Категория с таким названием уже существует")
	}
	s.invalidate(ctx, categoriesKey)
	return c, nil
}

// UpdateCategory изменяет категорию
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, storeError(err, "Категория с таким названием уже существует")
	}
	s.invalidate(ctx, categoriesKey)
	return c, nil
}

// DeleteCategory удаляет категорию; объявления остаются без категории
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return models.NotFoundOr(err, "Категория не найдена")
	}
	s.invalidate(ctx, categoriesKey)
	return nil
}

func applyLocality(loc *models.Locality, in LocalityInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.NewValidationError("Название населённого пункта обязательно")
	}
	loc.Name = name
	loc.PostalCode = strings.TrimSpace(in.PostalCode)
	loc.Country = strings.TrimSpace(in.Country)
	if loc.Country == "" {
		loc.Country = models.DefaultCountry
	}
	if in.Active != nil {
		loc.Active = *in.Active
	}
	return nil
}

func applyCategory(c *models.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.NewValidationError("Название категории обязательно")
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	return nil
}

func storeError(err error, duplicateMessage string) error {
	if errors.Is(err, models.ErrDuplicate) {
		return &models.Error{Kind: models.KindConflict, Message: duplicateMessage, Cause: err}
	}
	return models.NotFoundOr(err, "Запись не найдена")
}

func (s *CatalogService) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		log.Warnf("⚠️ Ошибка чтения кеша %s: %v", key, err)
		return false
	}
	return found
}

func (s *CatalogService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		log.Warnf("⚠️ Ошибка записи кеша %s: %v", key, err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warnf("⚠️ Ошибка сброса кеша %s: %v", key, err)
	}
}
