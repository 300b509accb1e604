// Package memory хранит данные в памяти процесса. Реализует те же
// контракты репозиториев, что и db.Store, и используется в тестах.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// Store - потокобезопасное хранилище в памяти
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	localities map[uuid.UUID]models.Locality
	categories map[uuid.UUID]models.Category
	users      map[uuid.UUID]models.User
	telegram   map[int64]uuid.UUID
	listings   map[uuid.UUID]models.Listing
	photos     map[uuid.UUID]models.ListingPhoto
	requests   map[uuid.UUID]models.TransactionRequest
	ratings    map[uuid.UUID]models.Rating
}

// New создаёт пустое хранилище
func New() *Store {
	return &Store{
		now:        time.Now,
		localities: make(map[uuid.UUID]models.Locality),
		categories: make(map[uuid.UUID]models.Category),
		users:      make(map[uuid.UUID]models.User),
		telegram:   make(map[int64]uuid.UUID),
		listings:   make(map[uuid.UUID]models.Listing),
		photos:     make(map[uuid.UUID]models.ListingPhoto),
		requests:   make(map[uuid.UUID]models.TransactionRequest),
		ratings:    make(map[uuid.UUID]models.Rating),
	}
}

// AddUser регистрирует пользователя напрямую, минуя Telegram
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := s.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.IsActive = true
	s.users[u.ID] = u
	return u
}

// Ping всегда успешен
func (s *Store) Ping(context.Context) error { return nil }

// --- каталог ---

func (s *Store) ListLocalities(ctx context.Context) ([]models.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Locality, 0, len(s.localities))
	for _, loc := range s.localities {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.localities[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return &loc, nil
}

func (s *Store) CreateLocality(ctx context.Context, loc *models.Locality) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.localityNameTaken(loc.Name, loc.ID) {
		return fmt.Errorf("%w: localities_name_key", models.ErrDuplicate)
	}
	s.localities[loc.ID] = *loc
	return nil
}

func (s *Store) UpdateLocality(ctx context.Context, loc *models.Locality) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.localities[loc.ID]; !ok {
		return models.ErrNoRecord
	}
	if s.localityNameTaken(loc.Name, loc.ID) {
		return fmt.Errorf("%w: localities_name_key", models.ErrDuplicate)
	}
	s.localities[loc.ID] = *loc
	return nil
}

func (s *Store) DeleteLocality(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.localities[id]; !ok {
		return models.ErrNoRecord
	}
	for _, l := range s.listings {
		if l.LocalityID == id {
			return fmt.Errorf("%w: listings_locality_id_fkey", models.ErrInUse)
		}
	}
	for uid, u := range s.users {
		if u.DefaultLocalityID != nil && *u.DefaultLocalityID == id {
			u.DefaultLocalityID = nil
			s.users[uid] = u
		}
	}
	delete(s.localities, id)
	return nil
}

func (s *Store) localityNameTaken(name string, except uuid.UUID) bool {
	for id, loc := range s.localities {
		if id != except && loc.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryNameTaken(c.Name, c.ID) {
		return fmt.Errorf("%w: categories_name_key", models.ErrDuplicate)
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[c.ID]; !ok {
		return models.ErrNoRecord
	}
	if s.categoryNameTaken(c.Name, c.ID) {
		return fmt.Errorf("%w: categories_name_key", models.ErrDuplicate)
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return models.ErrNoRecord
	}
	for lid, l := range s.listings {
		if l.CategoryID != nil && *l.CategoryID == id {
			l.CategoryID = nil
			s.listings[lid] = l
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) categoryNameTaken(name string, except uuid.UUID) bool {
	for id, c := range s.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
