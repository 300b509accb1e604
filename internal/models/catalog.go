package models

import "github.com/google/uuid"

// DefaultCountry - страна по умолчанию для новых населённых пунктов
const DefaultCountry = "España"

// Locality - населённый пункт, где находится объект
type Locality struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PostalCode string    `json:"postal_code,omitempty"`
	Country    string    `json:"country"`
	Active     bool      `json:"active"`
}

// Category - категория объектов
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}
