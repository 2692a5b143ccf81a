package models

// CartItem est une ligne du panier. L'identifiant est synthétisé
// (product_id + horodatage) et n'existe que le temps de la session.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}
