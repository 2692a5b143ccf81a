package services

import (
	"context"
	"time"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"

	"github.com/gocql/gocql"
)

// GetProductByID charge un produit complet depuis ScyllaDB
func GetProductByID(ctx context.Context, productID string) (models.Product, error) {
	productUUID, err := gocql.ParseUUID(productID)
	if err != nil {
		return models.Product{}, err
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	var createdAt, updatedAt time.Time

	err = session.Query(`SELECT product_id, name, description, price, stock, category_id, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, productUUID).WithContext(ctx).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
		&p.ImageURLs, &p.Tags, &p.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return models.Product{}, err
	}

	p.CreatedAt = &createdAt
	p.UpdatedAt = &updatedAt
	return p, nil
}

// DecrementStock retire une quantité vendue du stock d'un produit.
// Le stock fait foi en base : la décrémentation se fait au checkout,
// jamais à l'ajout au panier.
func DecrementStock(ctx context.Context, productID string, quantity int) error {
	p, err := GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	newStock := p.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	if err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ?`,
		newStock, time.Now(), p.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// Tient la table de lookup par catégorie à jour
	session.Query(`UPDATE products_by_category SET stock = ? WHERE category_id = ? AND product_id = ?`,
		newStock, p.CategoryID, p.ID).WithContext(ctx).Exec()

	return nil
}
