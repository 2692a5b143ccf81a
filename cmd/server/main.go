package main

import (
	"fmt"
	"log"
	"net/http"

	"lumera_back_end/internal/cart"
	"lumera_back_end/internal/config"
	"lumera_back_end/internal/database"
	"lumera_back_end/internal/handlers/user"
	"lumera_back_end/internal/routes"
	"lumera_back_end/internal/services"
	"lumera_back_end/internal/session"
	"lumera_back_end/internal/storage"
	"lumera_back_end/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	database.InitPreparedStatements()

	warmupRedisCache()
	initOAuthProviders()

	store := storage.New(database.Redis)
	carts := cart.NewManager(store, database.Redis)
	wishlists := wishlist.NewManager(store)
	users := services.NewScyllaUserStore()
	sessionManager := session.NewManager(store, users, carts, wishlists)

	h := routes.Handlers{
		Auth:     user.NewAuthHandler(users, sessionManager),
		Cart:     user.NewCartHandler(carts),
		Wishlist: user.NewWishlistHandler(wishlists),
		Orders:   user.NewOrderHandler(carts),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://lumera.shop", "https://www.lumera.shop"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, h)

	port := config.GetEnv("PORT", "8080")
	log.Printf("🚀 Serveur Lumera lancé sur le port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Impossible de démarrer le serveur: %v", err)
	}
}

// warmupRedisCache vérifie la connexion Redis au démarrage
func warmupRedisCache() {
	if database.Redis == nil {
		log.Println("⚠️ Redis non initialisé, cache désactivé")
		return
	}
	log.Println("✅ Cache Redis prêt")
}

// initOAuthProviders configure goth pour Google et Facebook
func initOAuthProviders() {
	sessionSecret := config.GetEnv("SESSION_SECRET", "lumera_session_secret")
	cookieStore := sessions.NewCookieStore([]byte(sessionSecret))
	cookieStore.MaxAge(86400 * 30)
	gothic.Store = cookieStore

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if p := req.URL.Query().Get("provider"); p != "" {
			return p, nil
		}
		if p := req.FormValue("provider"); p != "" {
			return p, nil
		}
		return "", fmt.Errorf("provider manquant")
	}

	backendURL := config.GetEnv("BACKEND_URL", "http://localhost:8080")
	goth.UseProviders(
		google.New(
			config.GetEnv("GOOGLE_CLIENT_ID", ""),
			config.GetEnv("GOOGLE_CLIENT_SECRET", ""),
			backendURL+"/api/auth/google/callback",
			"email", "profile",
		),
		facebook.New(
			config.GetEnv("FACEBOOK_CLIENT_ID", ""),
			config.GetEnv("FACEBOOK_CLIENT_SECRET", ""),
			backendURL+"/api/auth/facebook/callback",
			"email", "public_profile",
		),
	)
	log.Println("✅ Fournisseurs OAuth initialisés")
}
