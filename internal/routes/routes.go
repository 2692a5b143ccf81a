package routes

import (
	"lumera_back_end/internal/handlers/admin"
	"lumera_back_end/internal/handlers/product"
	"lumera_back_end/internal/handlers/user"
	"lumera_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers regroupe les handlers à dépendances injectées
type Handlers struct {
	Auth     *user.AuthHandler
	Cart     *user.CartHandler
	Wishlist *user.WishlistHandler
	Orders   *user.OrderHandler
}

// RegisterRoutes câble toute l'API sous /api
func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// --- Auth ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), h.Auth.Register)
		auth.POST("/login", middleware.LoginRateLimit(), h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/:provider", h.Auth.BeginAuth)
		auth.GET("/:provider/callback", h.Auth.CallbackAuth)

		auth.POST("/logout", middleware.AuthRequired(), h.Auth.Logout)
		auth.GET("/me", middleware.AuthRequired(), h.Auth.Me)
		auth.PUT("/me", middleware.AuthRequired(), h.Auth.UpdateProfile)
		auth.DELETE("/me", middleware.AuthRequired(), h.Auth.DeleteAccount)
	}

	// --- Catalogue (public) ---
	api.GET("/products", middleware.SearchRateLimit(), product.GetProducts)
	api.GET("/products/best-sellers", product.GetBestSellers)
	api.GET("/products/:id", product.GetProductByID)
	api.GET("/products/:id/images", product.GetProductImages)
	api.GET("/products/category/:id", product.GetProductsByCategory)
	api.GET("/categories", product.GetAllCategories)

	// Upload d'images (binaire unique en entrée, URL en sortie)
	api.POST("/images/upload", middleware.AuthRequired(), middleware.RequireAdmin, product.UploadProductImage)

	// --- Panier ---
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/add", middleware.CartRateLimit(), h.Cart.AddToCart)
		cart.POST("/sync", h.Cart.SyncCart)
		cart.PUT("/:productId", h.Cart.UpdateQuantity)
		cart.DELETE("/clear", h.Cart.ClearCart)
		cart.DELETE("/:productId", h.Cart.RemoveFromCart)
		cart.GET("/ws", h.Cart.CartWebSocket)
	}

	// --- Wishlist ---
	wishlist := api.Group("/wishlist", middleware.AuthRequired())
	{
		wishlist.GET("", h.Wishlist.GetWishlist)
		wishlist.POST("/add", h.Wishlist.AddToWishlist)
		wishlist.POST("/toggle", h.Wishlist.ToggleWishlist)
		wishlist.DELETE("/clear", h.Wishlist.ClearWishlist)
		wishlist.DELETE("/:productId", h.Wishlist.RemoveFromWishlist)
	}

	// --- Adresses ---
	addresses := api.Group("/addresses", middleware.AuthRequired())
	{
		addresses.GET("/mine", user.ListMyAddresses)
		addresses.POST("", user.CreateAddress)
		addresses.POST("/:id/default", user.MakeDefaultAddress)
		addresses.DELETE("/:id", user.DeleteAddress)
	}

	// --- Commandes ---
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("/my-orders", h.Orders.GetMyOrders)
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("/:id", h.Orders.GetOrderByID)
		orders.GET("/:id/invoice", h.Orders.GetOrderInvoice)
		orders.GET("/:id/qr", h.Orders.GetOrderQR)
	}

	// --- Administration ---
	adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.DELETE("/products/:id", product.DeleteProduct)
		adminGroup.POST("/products/images/attach", product.AddImageToProduct)
		adminGroup.DELETE("/products/images", product.DeleteProductImage)

		adminGroup.POST("/categories", product.CreateCategory)
		adminGroup.PUT("/categories/:id", product.UpdateCategory)
		adminGroup.DELETE("/categories/:id", product.DeleteCategory)

		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.PUT("/users/:id/role", admin.UpdateUserRole)

		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.GET("/orders/:id", admin.GetOrder)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)

		adminGroup.GET("/transactions", admin.ListTransactions)

		adminGroup.GET("/reports/revenue", admin.RevenueTrend)
		adminGroup.GET("/reports/status", admin.StatusDistribution)
		adminGroup.GET("/reports/categories", admin.CategorySales)
	}
}
