package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID         string     `json:"user_id"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Role       string     `json:"role,omitempty"`
	Provider   string     `json:"provider,omitempty"`
	ProviderID string     `json:"-"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// IsAdmin vérifie le rôle admin
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
