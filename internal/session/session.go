// Package session gère l'identité côté client : une seule session
// active par utilisateur, écrasée en bloc au login et entièrement
// effacée au logout (qui remet aussi à zéro panier et wishlist).
package session

import (
	"time"

	"lumera_back_end/internal/models"
)

type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role == models.RoleAdmin
}

func (s *Session) IsUser() bool {
	return s.IsAuthenticated() && s.Role == models.RoleCustomer
}

// HasPermission applique la hiérarchie des rôles : un admin satisfait
// toujours une exigence de niveau customer
func (s *Session) HasPermission(requiredRole string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if s.Role == models.RoleAdmin {
		return true
	}
	return s.Role == requiredRole
}
