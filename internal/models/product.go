package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Stock       int        `json:"stock" db:"stock"`
	CategoryID  gocql.UUID `json:"category_id" db:"category_id"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Snapshot retourne la copie dénormalisée embarquée dans le panier.
// Elle sert uniquement à l'affichage : le stock et le prix font foi
// en base au moment du checkout.
func (p Product) Snapshot() ProductSnapshot {
	imageURL := ""
	if len(p.ImageURLs) > 0 {
		imageURL = p.ImageURLs[0]
	}
	return ProductSnapshot{
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		ImageURL: imageURL,
	}
}

type ProductSnapshot struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}
