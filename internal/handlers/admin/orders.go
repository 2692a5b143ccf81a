package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumera_back_end/internal/cache"
	"lumera_back_end/internal/listview"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
)

// ordersView : la vue admin des commandes, avec les lignes de
// commande en contenu dépliable
var ordersView = listview.View[models.Order]{
	Mode: listview.ClientSide,
	Key:  func(o models.Order) string { return o.ID.String() },
	Columns: []listview.Column[models.Order]{
		{Key: "id", Header: "Commande", Value: func(o models.Order) any { return o.ID.String() }},
		{Key: "user_id", Header: "Client", Value: func(o models.Order) any { return o.UserID }},
		{Key: "status", Header: "Statut", Value: func(o models.Order) any { return o.Status }, Sortable: true,
			FilterOptions: []string{
				models.OrderStatusPending, models.OrderStatusPaid,
				models.OrderStatusShipped, models.OrderStatusDelivered,
				models.OrderStatusCancelled,
			}},
		{Key: "total", Header: "Total", Value: func(o models.Order) any { return o.TotalPrice }, Sortable: true},
		{Key: "created_at", Header: "Passée le", Value: func(o models.Order) any { return o.CreatedAt }, Sortable: true},
	},
	Detail: func(o models.Order) any { return orderDetail(o) },
}

// orderDetail déplie les lignes de commande avec le nom actuel du
// produit en complément de l'instantané figé à la commande
func orderDetail(o models.Order) []gin.H {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	currentNames := cache.GetProductNamesFromCache(ids)

	lines := make([]gin.H, 0, len(o.Items))
	for _, item := range o.Items {
		line := gin.H{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"price":      item.Price,
		}
		if current, ok := currentNames[item.ProductID]; ok && current != item.Name {
			line["current_name"] = current
		}
		lines = append(lines, line)
	}
	return lines
}

// allowedStatusTransitions borne les changements de statut possibles
var allowedStatusTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:      {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// GET /api/admin/orders
func ListOrders(c *gin.Context) {
	orders, err := services.ListAllOrders(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur récupération commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	result := ordersView.Render(orders, listview.ParamsFromQuery(c), len(orders))
	c.JSON(http.StatusOK, result)
}

// GET /api/admin/orders/:id
func GetOrder(c *gin.Context) {
	order, err := services.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	order, err := services.GetOrderByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	allowed, ok := allowedStatusTransitions[order.Status]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut actuel inconnu"})
		return
	}

	valid := false
	for _, s := range allowed {
		if s == req.Status {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Transition de statut non autorisée",
			"current": order.Status,
			"allowed": allowed,
		})
		return
	}

	if err := services.UpdateOrderStatus(ctx, order, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	log.Printf("📦 Commande %s: %s → %s", order.ID.String(), order.Status, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": req.Status})
}
