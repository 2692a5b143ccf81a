package user

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"lumera_back_end/internal/cart"
	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
	"lumera_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// OrderHandler porte le passage de commande : le panier est la source
// des lignes, le stock en base fait foi au moment du checkout
type OrderHandler struct {
	carts *cart.Manager
}

func NewOrderHandler(carts *cart.Manager) *OrderHandler {
	return &OrderHandler{carts: carts}
}

// GET /api/orders/my-orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := services.ListOrdersByUser(ctx, userID)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total := len(orders)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, gin.H{
		"items": orders[start:end],
		"pagination": models.Pagination{
			Page:       page,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := services.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// POST /api/orders
// CreateOrder transforme le panier en commande : validation adresse,
// re-vérification du stock en base, calcul des totaux, transaction de
// paiement simulée, décrément du stock et panier vidé.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		AddressID string `json:"address_id" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// 1. Le panier est la source des lignes
	userCart := h.carts.Get(ctx, userID)
	items := userCart.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	// 2. L'adresse doit exister et appartenir à l'utilisateur
	addressUUID, err := uuid.Parse(req.AddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var addressUserID string
	err = usersSession.Query("SELECT user_id FROM addresses WHERE address_id = ?", gocql.UUID(addressUUID)).
		WithContext(ctx).Scan(&addressUserID)
	if err != nil || addressUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Adresse introuvable ou non autorisée"})
		return
	}

	// 3. Re-vérification du stock avec les données actuelles
	orderItems := make([]models.OrderItem, 0, len(items))
	subtotal := 0.0
	for _, item := range items {
		product, err := services.GetProductByID(ctx, item.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable: " + item.ProductID})
			return
		}

		if product.Stock < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"product":   product.Name,
				"available": product.Stock,
				"requested": item.Quantity,
			})
			return
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		subtotal += product.Price * float64(item.Quantity)
	}

	// 4. Calcul des totaux (source unique)
	totals := services.ComputeTotals(subtotal)

	now := time.Now()
	order := models.Order{
		ID:         gocql.TimeUUID(),
		UserID:     userID,
		Items:      orderItems,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Shipping:   totals.Shipping,
		TotalPrice: totals.Total,
		Status:     models.OrderStatusPaid,
		AddressID:  req.AddressID,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := services.InsertOrder(ctx, order); err != nil {
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	// 5. Paiement simulé : la transaction est tracée comme payée
	transaction := models.Transaction{
		ID:        gocql.TimeUUID(),
		OrderID:   order.ID,
		UserID:    userID,
		Amount:    order.TotalPrice,
		Provider:  "mock",
		Status:    models.TransactionStatusPaid,
		CreatedAt: now,
	}
	if err := services.InsertTransaction(ctx, transaction); err != nil {
		log.Println("⚠️ Erreur enregistrement transaction:", err)
	}

	// 6. Décrément du stock vendu
	for _, item := range orderItems {
		if err := services.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("⚠️ Erreur décrément stock pour %s: %v", item.ProductID, err)
		}
	}

	// 7. Le panier est vidé une fois la commande passée
	h.carts.Clear(ctx, userID)

	// 8. Email de confirmation en asynchrone
	if email != "" {
		go func(o models.Order, to string) {
			html := utils.GenerateOrderConfirmationHTML(o)
			if err := utils.SendConfirmationEmail(to, "Confirmation de votre commande Lumera", html, nil); err != nil {
				log.Println("⚠️ Erreur envoi email de confirmation:", err)
			}
		}(order, email)
	}

	log.Printf("🛒 Commande créée: %s (%.2f€) pour %s", order.ID.String(), order.TotalPrice, userID)

	c.JSON(http.StatusCreated, gin.H{
		"order":       order,
		"transaction": transaction,
	})
}

// GET /api/orders/:id/invoice
// Rend la facture PDF via Chrome headless, avec un QR SEPA intégré
func (h *OrderHandler) GetOrderInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := services.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	iban, bic, name := utils.CompanyBankDetails()
	qr, err := utils.GenerateSepaQR(iban, bic, name, "Commande "+order.ID.String(), order.TotalPrice)
	if err != nil {
		log.Println("⚠️ Erreur génération QR SEPA:", err)
	}

	pdf, err := utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), order.ID.String(), qr)
	if err != nil {
		log.Println("❌ Erreur génération facture:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.ID.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/orders/:id/qr
// Retourne le QR SEPA de paiement de la commande
func (h *OrderHandler) GetOrderQR(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := services.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	iban, bic, name := utils.CompanyBankDetails()
	qr, err := utils.GenerateSepaQR(iban, bic, name, "Commande "+order.ID.String(), order.TotalPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr": qr})
}
