package listing

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// Repository - хранилище объявлений и их фотографий
type Repository interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	UpdateListing(ctx context.Context, l *models.Listing) error
	ListListingsByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Listing, error)
	AddListingPhoto(ctx context.Context, p *models.ListingPhoto) error
	GetListingPhoto(ctx context.Context, listingID, photoID uuid.UUID) (*models.ListingPhoto, error)
	DeleteListingPhoto(ctx context.Context, photoID uuid.UUID) error
}

// CatalogLookup разрешает ссылки на справочники
type CatalogLookup interface {
	GetLocality(ctx context.Context, id uuid.UUID) (*models.Locality, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// PhotoStorage удаляет файлы из медиа-хранилища
type PhotoStorage interface {
	DeletePhoto(ctx context.Context, publicID string) error
}

// ListingService представляет сервис для работы с объявлениями
type ListingService struct {
	repo    Repository
	catalog CatalogLookup
	photos  PhotoStorage
}

// NewListingService создает новый экземпляр ListingService. photos может быть nil.
func NewListingService(repo Repository, catalog CatalogLookup, photos PhotoStorage) *ListingService {
	return &ListingService{repo: repo, catalog: catalog, photos: photos}
}

// CreateListing публикует объявление от имени владельца
func (s *ListingService) CreateListing(ctx context.Context, ownerID uuid.UUID, in ListingInput) (*models.Listing, error) {
	in, err := ValidateListing(in)
	if err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, in); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Active:  true,
		Photos:  []models.ListingPhoto{},
	}
	apply(listing, in)

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, err
	}
	log.Infow("listing created", "listing_id", listing.ID, "owner_id", ownerID, "availability", listing.Availability)
	return listing, nil
}

// GetListing возвращает объявление с фотографиями
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, models.NotFoundOr(err, "Объявление не найдено")
	}
	return listing, nil
}

// GetMyListings возвращает объявления владельца
func (s *ListingService) GetMyListings(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Listing, error) {
	return s.repo.ListListingsByOwner(ctx, ownerID, includeInactive)
}

// UpdateListing заменяет данные объявления; доступно только владельцу
func (s *ListingService) UpdateListing(ctx context.Context, actorID, id uuid.UUID, in ListingInput) (*models.Listing, error) {
	listing, err := s.ownedListing(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	in, err = ValidateListing(in)
	if err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, in); err != nil {
		return nil, err
	}

	apply(listing, in)
	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, models.NotFoundOr(err, "Объявление не найдено")
	}
	return listing, nil
}

// DeactivateListing снимает объявление с публикации без удаления
func (s *ListingService) DeactivateListing(ctx context.Context, actorID, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.ownedListing(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return listing, nil
	}

	listing.Active = false
	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, models.NotFoundOr(err, "Объявление не найдено")
	}
	log.Infow("listing deactivated", "listing_id", listing.ID, "owner_id", actorID)
	return listing, nil
}

// AddPhoto прикрепляет загруженную фотографию к объявлению
func (s *ListingService) AddPhoto(ctx context.Context, actorID, listingID uuid.UUID, in PhotoInput) (*models.ListingPhoto, error) {
	if _, err := s.ownedListing(ctx, actorID, listingID); err != nil {
		return nil, err
	}
	if in.URL == "" || in.PublicID == "" {
		return nil, models.NewValidationError("Нужны url и public_id фотографии")
	}

	photo := &models.ListingPhoto{
		ID:          uuid.New(),
		ListingID:   listingID,
		URL:         in.URL,
		PublicID:    in.PublicID,
		Description: in.Description,
	}

	// Метаданные берём из ответа Cloudinary, если клиент его передал
	if len(in.CloudinaryResponse) > 0 {
		cr, err := models.ParseCloudinaryResponse(in.CloudinaryResponse)
		if err != nil {
			log.Warnf("⚠️ Не удалось разобрать ответ Cloudinary для %s: %v", in.PublicID, err)
		} else {
			photo.Metadata = models.ExtractMetadata(cr)
			photo.PreviewURL = models.ExtractPreviewURL(cr)
		}
	}

	if err := s.repo.AddListingPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// RemovePhoto удаляет фотографию объявления и файл в Cloudinary
func (s *ListingService) RemovePhoto(ctx context.Context, actorID, listingID, photoID uuid.UUID) error {
	if _, err := s.ownedListing(ctx, actorID, listingID); err != nil {
		return err
	}

	photo, err := s.repo.GetListingPhoto(ctx, listingID, photoID)
	if err != nil {
		return models.NotFoundOr(err, "Фотография не найдена")
	}
	if err := s.repo.DeleteListingPhoto(ctx, photo.ID); err != nil {
		return models.NotFoundOr(err, "Фотография не найдена")
	}

	if s.photos != nil {
		if err := s.photos.DeletePhoto(ctx, photo.PublicID); err != nil {
			log.Warnf("⚠️ Не удалось удалить %s из Cloudinary: %v", photo.PublicID, err)
		}
	}
	return nil
}

func (s *ListingService) ownedListing(ctx context.Context, actorID, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, models.NewPermissionDenied("Изменять объявление может только владелец")
	}
	return listing, nil
}

func (s *ListingService) resolveReferences(ctx context.Context, in ListingInput) error {
	if _, err := s.catalog.GetLocality(ctx, in.LocalityID); err != nil {
		if errors.Is(err, models.ErrNoRecord) || models.IsKind(err, models.KindNotFound) {
			return models.NewNotFound("Населённый пункт не найден")
		}
		return err
	}
	if in.CategoryID != nil {
		if _, err := s.catalog.GetCategory(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, models.ErrNoRecord) || models.IsKind(err, models.KindNotFound) {
				return models.NewNotFound("Категория не найдена")
			}
			return err
		}
	}
	return nil
}

func apply(listing *models.Listing, in ListingInput) {
	listing.Name = in.Name
	listing.Description = in.Description
	listing.CategoryID = in.CategoryID
	listing.LocalityID = in.LocalityID
	listing.Availability = models.AvailabilityMode(in.Availability)
	listing.ExchangeConditions = in.ExchangeConditions
	listing.RentalPricePerDay = decimal.NullDecimal{}
	if in.RentalPricePerDay != nil {
		listing.RentalPricePerDay = decimal.NullDecimal{Decimal: *in.RentalPricePerDay, Valid: true}
	}
	if in.Active != nil {
		listing.Active = *in.Active
	}
}
