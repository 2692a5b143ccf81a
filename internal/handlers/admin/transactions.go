package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumera_back_end/internal/listview"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
)

var transactionsView = listview.View[models.Transaction]{
	Mode: listview.ClientSide,
	Key:  func(t models.Transaction) string { return t.ID.String() },
	Columns: []listview.Column[models.Transaction]{
		{Key: "id", Header: "Transaction", Value: func(t models.Transaction) any { return t.ID.String() }},
		{Key: "order_id", Header: "Commande", Value: func(t models.Transaction) any { return t.OrderID.String() }},
		{Key: "user_id", Header: "Client", Value: func(t models.Transaction) any { return t.UserID }},
		{Key: "amount", Header: "Montant", Value: func(t models.Transaction) any { return t.Amount }, Sortable: true},
		{Key: "provider", Header: "Provider", Value: func(t models.Transaction) any { return t.Provider }},
		{Key: "status", Header: "Statut", Value: func(t models.Transaction) any { return t.Status }, Sortable: true,
			FilterOptions: []string{
				models.TransactionStatusPaid,
				models.TransactionStatusRefunded,
				models.TransactionStatusFailed,
			}},
		{Key: "created_at", Header: "Date", Value: func(t models.Transaction) any { return t.CreatedAt }, Sortable: true},
	},
}

// GET /api/admin/transactions
func ListTransactions(c *gin.Context) {
	transactions, err := services.ListTransactions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération transactions"})
		return
	}

	result := transactionsView.Render(transactions, listview.ParamsFromQuery(c), len(transactions))
	c.JSON(http.StatusOK, result)
}
