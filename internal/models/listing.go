package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAmount - наибольшая сумма, которую вмещают денежные колонки NUMERIC(10, 2)
var MaxAmount = decimal.RequireFromString("99999999.99")

// Listing представляет объект, который владелец предлагает соседям
type Listing struct {
	ID                 uuid.UUID           `json:"id"`
	OwnerID            uuid.UUID           `json:"owner_id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	CategoryID         *uuid.UUID          `json:"category_id,omitempty"`
	LocalityID         uuid.UUID           `json:"locality_id"`
	Availability       AvailabilityMode    `json:"availability"`
	RentalPricePerDay  decimal.NullDecimal `json:"rental_price_per_day"`
	ExchangeConditions string              `json:"exchange_conditions,omitempty"`
	PublishedAt        time.Time           `json:"published_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Active             bool                `json:"active"`
	Photos             []ListingPhoto      `json:"photos"`
}

// ListingPhoto представляет фотографию объекта
type ListingPhoto struct {
	ID          uuid.UUID     `json:"id"`
	ListingID   uuid.UUID     `json:"listing_id"`
	URL         string        `json:"url"`
	PreviewURL  string        `json:"preview_url,omitempty"`
	PublicID    string        `json:"public_id"`
	Description string        `json:"description,omitempty"`
	Metadata    ImageMetadata `json:"metadata,omitempty"`
	UploadedAt  time.Time     `json:"uploaded_at"`
}

// ImageMetadata содержит ключевые метаданные изображения из Cloudinary
type ImageMetadata struct {
	AssetID string `json:"asset_id,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Bytes   int    `json:"bytes,omitempty"`
	Format  string `json:"format,omitempty"`
}

// CloudinaryResponse - часть ответа Cloudinary после загрузки, которую присылает клиент
type CloudinaryResponse struct {
	AssetID   string  `json:"asset_id"`
	PublicID  string  `json:"public_id"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Format    string  `json:"format"`
	Bytes     int     `json:"bytes"`
	SecureURL string  `json:"secure_url"`
	Eager     []Eager `json:"eager"`
}

// Eager содержит информацию о трансформациях изображения
type Eager struct {
	Status    string `json:"status"`
	SecureURL string `json:"secure_url"`
}

// ExtractMetadata извлекает основные метаданные из ответа Cloudinary
func ExtractMetadata(cr CloudinaryResponse) ImageMetadata {
	return ImageMetadata{
		AssetID: cr.AssetID,
		Width:   cr.Width,
		Height:  cr.Height,
		Bytes:   cr.Bytes,
		Format:  cr.Format,
	}
}

// ExtractPreviewURL извлекает URL превью из ответа Cloudinary
func ExtractPreviewURL(cr CloudinaryResponse) string {
	for _, eager := range cr.Eager {
		if eager.Status == "processing" || eager.Status == "completed" {
			return eager.SecureURL
		}
	}
	return ""
}

// ParseCloudinaryResponse конвертирует JSON-ответ от Cloudinary в структуру
func ParseCloudinaryResponse(raw json.RawMessage) (CloudinaryResponse, error) {
	var response CloudinaryResponse
	err := json.Unmarshal(raw, &response)
	return response, err
}
