// Package cart implémente le panier : une séquence ordonnée de lignes
// (l'ordre d'insertion est l'ordre d'affichage), chaque ligne portant
// un instantané du produit au moment de l'ajout.
package cart

import (
	"fmt"
	"time"

	"lumera_back_end/internal/models"
)

type Cart struct {
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// FromItems reconstruit un panier depuis son état persisté
func FromItems(items []models.CartItem) *Cart {
	return &Cart{items: items}
}

// Items retourne les lignes dans l'ordre d'insertion
func (c *Cart) Items() []models.CartItem {
	if c.items == nil {
		return []models.CartItem{}
	}
	return c.items
}

// AddItem ajoute une quantité d'un produit. Si la ligne existe déjà,
// les quantités sont fusionnées. Dépasser le stock connu est un no-op
// silencieux : l'état reste inchangé et aucun signal d'erreur n'est
// rendu — la couche HTTP fait sa propre pré-vérification.
func (c *Cart) AddItem(p models.Product, quantity int) {
	if quantity <= 0 {
		return
	}

	productID := p.ID.String()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			newQuantity := c.items[i].Quantity + quantity
			if newQuantity > p.Stock {
				return
			}
			c.items[i].Quantity = newQuantity
			c.items[i].Product = p.Snapshot()
			return
		}
	}

	if quantity > p.Stock {
		return
	}

	c.items = append(c.items, models.CartItem{
		ID:        fmt.Sprintf("%s-%d", productID, time.Now().UnixMilli()),
		ProductID: productID,
		Product:   p.Snapshot(),
		Quantity:  quantity,
		UnitPrice: p.Price,
	})
}

// RemoveItem retire une ligne (no-op si absente)
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity fixe la quantité d'une ligne. Une quantité <= 0 vaut
// suppression. La quantité est bornée au stock connu de la ligne :
// une valeur excédentaire est ramenée au maximum, pas rejetée.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	for i := range c.items {
		if c.items[i].ProductID == productID {
			if quantity > c.items[i].Product.Stock {
				quantity = c.items[i].Product.Stock
			}
			if quantity <= 0 {
				c.RemoveItem(productID)
				return
			}
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Refresh met à jour l'instantané d'une ligne avec les données
// actuelles du produit (stock et prix courants connus)
func (c *Cart) Refresh(p models.Product) {
	productID := p.ID.String()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Product = p.Snapshot()
			return
		}
	}
}

// Clear vide le panier
func (c *Cart) Clear() {
	c.items = nil
}

// Total est la somme des quantité × prix unitaire (calculé, jamais stocké)
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Count est la somme des quantités
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsInCart(productID string) bool {
	for _, item := range c.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) QuantityOf(productID string) int {
	for _, item := range c.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}
