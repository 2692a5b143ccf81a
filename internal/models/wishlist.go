package models

type Wishlist struct {
	UserID     string    `json:"user_id"`
	ProductIDs []string  `json:"product_ids"`
	Items      []Product `json:"items,omitempty"`
}
