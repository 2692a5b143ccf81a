package user

import (
	"net/http"

	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
	"lumera_back_end/internal/wishlist"

	"github.com/gin-gonic/gin"
)

// WishlistHandler expose la wishlist : un ensemble ordonné d'ids
// produit, enrichi à la lecture avec le détail des produits
type WishlistHandler struct {
	wishlists *wishlist.Manager
}

func NewWishlistHandler(wishlists *wishlist.Manager) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// GET /api/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx := c.Request.Context()
	w := h.wishlists.Get(ctx, userID)

	// Enrichissement : les produits disparus sont ignorés silencieusement
	items := []models.Product{}
	for _, id := range w.IDs() {
		if product, err := services.GetProductByID(ctx, id); err == nil {
			items = append(items, product)
		}
	}

	c.JSON(http.StatusOK, models.Wishlist{
		UserID:     userID,
		ProductIDs: w.IDs(),
		Items:      items,
	})
}

// POST /api/wishlist/add
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	if _, err := services.GetProductByID(ctx, input.ProductID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	w := h.wishlists.Get(ctx, userID)
	w.Add(input.ProductID)
	h.wishlists.Save(ctx, userID, w)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Produit ajouté à la wishlist",
		"product_ids": w.IDs(),
		"count":       w.Size(),
	})
}

// POST /api/wishlist/toggle
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := c.Request.Context()
	w := h.wishlists.Get(ctx, userID)
	added := w.Toggle(input.ProductID)
	h.wishlists.Save(ctx, userID, w)

	c.JSON(http.StatusOK, gin.H{
		"in_wishlist": added,
		"product_ids": w.IDs(),
		"count":       w.Size(),
	})
}

// DELETE /api/wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	ctx := c.Request.Context()

	w := h.wishlists.Get(ctx, userID)
	w.Remove(productID)
	h.wishlists.Save(ctx, userID, w)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Produit retiré de la wishlist",
		"product_ids": w.IDs(),
		"count":       w.Size(),
	})
}

// DELETE /api/wishlist/clear
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	h.wishlists.Clear(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist vidée"})
}
