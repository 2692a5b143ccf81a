package user

import (
	"net/http"

	"lumera_back_end/internal/cart"
	"lumera_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// CartHandler expose le panier persisté. Les règles de fusion et de
// bornage vivent dans le conteneur ; la couche HTTP fait la
// pré-vérification de stock pour pouvoir répondre 400 au client.
type CartHandler struct {
	carts *cart.Manager
}

func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

func cartResponse(c *cart.Cart) gin.H {
	return gin.H{
		"items": c.Items(),
		"total": c.Total(),
		"count": c.Count(),
	}
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	userCart := h.carts.Get(c.Request.Context(), userID)
	c.JSON(http.StatusOK, cartResponse(userCart))
}

// POST /api/cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	ctx := c.Request.Context()

	product, err := services.GetProductByID(ctx, input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	userCart := h.carts.Get(ctx, userID)

	// Pré-vérification : quantité en panier + demande vs stock connu
	if userCart.QuantityOf(input.ProductID)+input.Quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock insuffisant"})
		return
	}

	userCart.AddItem(product, input.Quantity)
	h.carts.Save(ctx, userID, userCart)

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   userCart.Items(),
		"total":   userCart.Total(),
		"count":   userCart.Count(),
	})
}

// PUT /api/cart/:productId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	userCart := h.carts.Get(ctx, userID)

	if !userCart.IsInCart(productID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent du panier"})
		return
	}

	// Rafraîchit l'instantané avec le stock courant avant le bornage
	if product, err := services.GetProductByID(ctx, productID); err == nil {
		userCart.Refresh(product)
	}

	userCart.UpdateQuantity(productID, input.Quantity)
	h.carts.Save(ctx, userID, userCart)

	c.JSON(http.StatusOK, cartResponse(userCart))
}

// DELETE /api/cart/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	ctx := c.Request.Context()

	userCart := h.carts.Get(ctx, userID)
	userCart.RemoveItem(productID)
	h.carts.Save(ctx, userID, userCart)

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   userCart.Items(),
		"total":   userCart.Total(),
		"count":   userCart.Count(),
	})
}

// DELETE /api/cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	h.carts.Clear(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

// POST /api/cart/sync
// Reconstruit le panier serveur depuis un état client (après une
// période hors-ligne par exemple). Chaque ligne est re-validée contre
// le produit en base, les lignes invalides sont ignorées.
func (h *CartHandler) SyncCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	userCart := cart.New()

	for _, item := range input.Items {
		product, err := services.GetProductByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		quantity := item.Quantity
		if quantity > product.Stock {
			quantity = product.Stock
		}
		userCart.AddItem(product, quantity)
	}

	h.carts.Save(ctx, userID, userCart)
	c.JSON(http.StatusOK, cartResponse(userCart))
}
