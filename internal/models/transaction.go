package models

import (
	"time"

	"github.com/gocql/gocql"
)

const (
	TransactionStatusPaid     = "paid"
	TransactionStatusRefunded = "refunded"
	TransactionStatusFailed   = "failed"
)

// Transaction trace le paiement simulé d'une commande.
// Le provider "mock" remplace l'intégration paiement réelle.
type Transaction struct {
	ID        gocql.UUID `json:"id"`
	OrderID   gocql.UUID `json:"order_id"`
	UserID    string     `json:"user_id"`
	Amount    float64    `json:"amount"`
	Provider  string     `json:"provider"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
