package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"

	"github.com/gocql/gocql"
)

var ErrOrderNotFound = errors.New("commande introuvable")

// InsertOrder persiste la commande dans la table orders et la table
// de lookup orders_by_user. Les lignes sont stockées en JSON.
func InsertOrder(ctx context.Context, order models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (order_id, user_id, items, subtotal, tax, shipping, total_price, status, address_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, string(itemsJSON), order.Subtotal, order.Tax, order.Shipping,
		order.TotalPrice, order.Status, order.AddressID, order.Notes, order.CreatedAt, order.UpdatedAt,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, total_price, status)
		VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.TotalPrice, order.Status,
	).WithContext(ctx).Exec()
}

// GetOrderByID charge une commande complète
func GetOrderByID(ctx context.Context, orderID string) (models.Order, error) {
	orderUUID, err := gocql.ParseUUID(orderID)
	if err != nil {
		return models.Order{}, ErrOrderNotFound
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, err
	}

	var (
		o         models.Order
		itemsJSON string
	)
	err = session.Query(`SELECT order_id, user_id, items, subtotal, tax, shipping, total_price, status, address_id, notes, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderUUID).WithContext(ctx).Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.Subtotal, &o.Tax, &o.Shipping,
		&o.TotalPrice, &o.Status, &o.AddressID, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == gocql.ErrNotFound {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}

	json.Unmarshal([]byte(itemsJSON), &o.Items)
	return o, nil
}

// ListOrdersByUser retourne les commandes d'un utilisateur, les plus
// récentes d'abord (ordre de clustering de orders_by_user)
func ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var orderIDs []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		orderIDs = append(orderIDs, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(orderIDs))
	for _, oid := range orderIDs {
		o, err := GetOrderByID(ctx, oid.String())
		if err != nil {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ListAllOrders scanne la table orders (écrans d'administration)
func ListAllOrders(ctx context.Context) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, user_id, items, subtotal, tax, shipping, total_price, status, address_id, notes, created_at, updated_at
		FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	var itemsJSON string

	for iter.Scan(&o.ID, &o.UserID, &itemsJSON, &o.Subtotal, &o.Tax, &o.Shipping,
		&o.TotalPrice, &o.Status, &o.AddressID, &o.Notes, &o.CreatedAt, &o.UpdatedAt) {
		json.Unmarshal([]byte(itemsJSON), &o.Items)
		orders = append(orders, o)
		o = models.Order{}
		itemsJSON = ""
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus change le statut dans les deux tables
func UpdateOrderStatus(ctx context.Context, order models.Order, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		status, now, order.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		status, order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec()
}

// InsertTransaction trace le paiement d'une commande
func InsertTransaction(ctx context.Context, t models.Transaction) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO transactions (transaction_id, order_id, user_id, amount, provider, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OrderID, t.UserID, t.Amount, t.Provider, t.Status, t.CreatedAt,
	).WithContext(ctx).Exec()
}

// ListTransactions scanne la table transactions (administration)
func ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT transaction_id, order_id, user_id, amount, provider, status, created_at
		FROM transactions`).WithContext(ctx).Iter()

	var transactions []models.Transaction
	var t models.Transaction
	for iter.Scan(&t.ID, &t.OrderID, &t.UserID, &t.Amount, &t.Provider, &t.Status, &t.CreatedAt) {
		transactions = append(transactions, t)
		t = models.Transaction{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return transactions, nil
}
