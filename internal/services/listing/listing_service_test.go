package listing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/barrio-api/internal/db/memory"
	"github.com/rajivgeraev/barrio-api/internal/models"
)

type fakePhotoStorage struct {
	deleted []string
	err     error
}

func (f *fakePhotoStorage) DeletePhoto(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return f.err
}

type fixture struct {
	svc      *ListingService
	store    *memory.Store
	photos   *fakePhotoStorage
	locality models.Locality
	owner    models.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	loc := models.Locality{ID: uuid.New(), Name: "Lavapiés", Country: models.DefaultCountry, Active: true}
	require.NoError(t, store.CreateLocality(context.Background(), &loc))
	photos := &fakePhotoStorage{}
	return fixture{
		svc:      NewListingService(store, store, photos),
		store:    store,
		photos:   photos,
		locality: loc,
		owner:    store.AddUser(models.User{FirstName: "Ana"}),
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateListing(t *testing.T) {
	loc := uuid.New()
	cases := []struct {
		name  string
		input ListingInput
		ok    bool
	}{
		{"loan without price", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "PR"}, true},
		{"default mode is loan", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc}, true},
		{"rental needs price", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "AL"}, false},
		{"rental zero price", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "AL", RentalPricePerDay: price("0")}, false},
		{"rental with price", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "TO", RentalPricePerDay: price("3.50")}, true},
		{"rental price too large", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "AL", RentalPricePerDay: price("100000000")}, false},
		{"rental price at limit", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "AL", RentalPricePerDay: price("99999999.99")}, true},
		{"price on loan", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "PR", RentalPricePerDay: price("3")}, false},
		{"exchange conditions on loan", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "PR", ExchangeConditions: "libros"}, false},
		{"exchange conditions on exchange", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "IN", ExchangeConditions: "libros"}, true},
		{"unknown mode", ListingInput{Name: "Taladro", Description: "Bosch", LocalityID: loc, Availability: "XX"}, false},
		{"blank name", ListingInput{Name: "  ", Description: "Bosch", LocalityID: loc}, false},
		{"no description", ListingInput{Name: "Taladro", LocalityID: loc}, false},
		{"no locality", ListingInput{Name: "Taladro", Description: "Bosch"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateListing(tc.input)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, models.IsKind(err, models.KindValidation), "got %v", err)
			}
		})
	}
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.CreateListing(ctx, f.owner.ID, ListingInput{
		Name: "Bicicleta", Description: "Urbana", LocalityID: f.locality.ID,
		Availability: "PA", RentalPricePerDay: price("4.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, l.OwnerID)
	assert.True(t, l.Active)
	assert.True(t, l.RentalPricePerDay.Valid)
	assert.Equal(t, "5", l.RentalPricePerDay.Decimal.String())

	got, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityLoanOrRental, got.Availability)
}

func TestCreateListingUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateListing(ctx, f.owner.ID, ListingInput{Name: "A", Description: "B", LocalityID: uuid.New()})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	missing := uuid.New()
	_, err = f.svc.CreateListing(ctx, f.owner.ID, ListingInput{Name: "A", Description: "B", LocalityID: f.locality.ID, CategoryID: &missing})
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestUpdateAndDeactivateOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, err := f.svc.CreateListing(ctx, f.owner.ID, ListingInput{Name: "Sierra", Description: "Circular", LocalityID: f.locality.ID})
	require.NoError(t, err)

	stranger := f.store.AddUser(models.User{FirstName: "Eva"})
	_, err = f.svc.UpdateListing(ctx, stranger.ID, l.ID, ListingInput{Name: "X", Description: "Y", LocalityID: f.locality.ID})
	assert.True(t, models.IsKind(err, models.KindPermissionDenied))

	updated, err := f.svc.UpdateListing(ctx, f.owner.ID, l.ID, ListingInput{Name: "Sierra de calar", Description: "Circular", LocalityID: f.locality.ID})
	require.NoError(t, err)
	assert.Equal(t, "Sierra de calar", updated.Name)

	_, err = f.svc.DeactivateListing(ctx, stranger.ID, l.ID)
	assert.True(t, models.IsKind(err, models.KindPermissionDenied))

	deactivated, err := f.svc.DeactivateListing(ctx, f.owner.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	// деактивация не удаляет объявление
	_, err = f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)

	mine, err := f.svc.GetMyListings(ctx, f.owner.ID, false)
	require.NoError(t, err)
	assert.Empty(t, mine)
	mine, err = f.svc.GetMyListings(ctx, f.owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, err := f.svc.CreateListing(ctx, f.owner.ID, ListingInput{Name: "Tienda", Description: "Camping", LocalityID: f.locality.ID})
	require.NoError(t, err)

	cr, _ := json.Marshal(models.CloudinaryResponse{
		AssetID: "a1", PublicID: "barrio/tienda", Width: 800, Height: 600, Format: "jpg",
		Eager: []models.Eager{{Status: "completed", SecureURL: "https://res.cloudinary.com/x/preview.jpg"}},
	})
	photo, err := f.svc.AddPhoto(ctx, f.owner.ID, l.ID, PhotoInput{
		URL: "https://res.cloudinary.com/x/tienda.jpg", PublicID: "barrio/tienda", CloudinaryResponse: cr,
	})
	require.NoError(t, err)
	assert.Equal(t, 800, photo.Metadata.Width)
	assert.Equal(t, "https://res.cloudinary.com/x/preview.jpg", photo.PreviewURL)

	got, err := f.svc.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, got.Photos, 1)

	stranger := f.store.AddUser(models.User{FirstName: "Eva"})
	err = f.svc.RemovePhoto(ctx, stranger.ID, l.ID, photo.ID)
	assert.True(t, models.IsKind(err, models.KindPermissionDenied))

	// ошибка Cloudinary не мешает удалению записи
	f.photos.err = errors.New("cloudinary down")
	require.NoError(t, f.svc.RemovePhoto(ctx, f.owner.ID, l.ID, photo.ID))
	assert.Equal(t, []string{"barrio/tienda"}, f.photos.deleted)

	err = f.svc.RemovePhoto(ctx, f.owner.ID, l.ID, photo.ID)
	assert.True(t, models.IsKind(err, models.KindNotFound))
}
