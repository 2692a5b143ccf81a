package models

import "github.com/gocql/gocql"

type Address struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"user_id"`
	Street     string     `json:"street"`
	PostalCode string     `json:"postal_code"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	IsDefault  bool       `json:"is_default"`
}
