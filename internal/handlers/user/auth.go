package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"lumera_back_end/internal/cache"
	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
	"lumera_back_end/internal/session"
	"lumera_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

const RefreshTokenTTL = 7 * 24 * time.Hour

// AuthHandler porte les dépendances injectées : le store de comptes
// qui fait foi et le gestionnaire de sessions
type AuthHandler struct {
	users    *services.ScyllaUserStore
	sessions *session.Manager
}

func NewAuthHandler(users *services.ScyllaUserStore, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// ================== AUTH LOCALE ==================

func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	// email déjà pris ?
	if _, err := h.users.FindByEmail(ctx, input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	newUser := models.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleCustomer,
		Provider: "local",
	}

	if err := h.users.Create(ctx, newUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(newUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	h.sessions.Open(ctx, newUser, token)

	refreshToken := utils.GenerateRefreshToken()
	cache.StoreRefreshToken(newUser.ID, refreshToken, RefreshTokenTTL)

	log.Printf("🆕 Utilisateur créé: %s", newUser.Email)

	c.JSON(http.StatusCreated, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"userId":        newUser.ID,
		"email":         newUser.Email,
		"name":          newUser.Name,
		"role":          newUser.Role,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sess, token, err := h.sessions.Login(ctx, input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	refreshToken := utils.GenerateRefreshToken()
	cache.StoreRefreshToken(sess.UserID, refreshToken, RefreshTokenTTL)

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"userId":        sess.UserID,
		"email":         sess.Email,
		"name":          sess.Name,
		"role":          sess.Role,
	})
}

// RefreshToken échange un refresh token valide contre un nouveau JWT.
// Le refresh token est tourné à chaque échange.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		UserID       string `json:"user_id" binding:"required"`
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := cache.GetRefreshToken(input.UserID)
	if err != nil || stored == "" || stored != input.RefreshToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.FindByID(ctx, input.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	newRefresh := utils.GenerateRefreshToken()
	cache.StoreRefreshToken(u.ID, newRefresh, RefreshTokenTTL)
	h.sessions.Open(ctx, u, token)

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": newRefresh,
	})
}

// Logout révoque le token courant et remet l'état client à zéro
// (session, panier, wishlist)
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	if jti := c.GetString("jti"); jti != "" {
		cache.BlacklistToken(jti, utils.TokenTTL)
	}
	cache.DeleteRefreshToken(userID)

	h.sessions.Logout(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	u, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"provider": u.Provider,
	})
}

// UpdateProfile fusionne les champs fournis dans la session courante
// et répercute en base
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var updates session.Updates
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.sessions.UpdateUser(c.Request.Context(), userID, updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId": sess.UserID,
		"name":   sess.Name,
		"email":  sess.Email,
		"role":   sess.Role,
	})
}

// DeleteAccount supprime le compte et tout l'état client associé
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	u, err := h.users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := h.users.Delete(ctx, userID, u.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression compte"})
		return
	}

	if jti := c.GetString("jti"); jti != "" {
		cache.BlacklistToken(jti, utils.TokenTTL)
	}
	cache.DeleteRefreshToken(userID)
	h.sessions.Logout(ctx, userID)

	log.Printf("🗑️ Compte supprimé: %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Compte supprimé"})
}

// ================== AUTH SOCIALE (WEB) ==================

func (h *AuthHandler) BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	redirectURL := c.Query("redirect_url")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	callbackURL := baseURL + "/api/auth/" + provider + "/callback"

	switch provider {
	case "google":
		goth.UseProviders(google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackURL,
		))
	case "facebook":
		goth.UseProviders(facebook.New(
			os.Getenv("FACEBOOK_CLIENT_ID"),
			os.Getenv("FACEBOOK_CLIENT_SECRET"),
			callbackURL,
		))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	ctx := context.Background()
	state := generateRandomState()
	if redirectURL != "" {
		_ = database.RedisClient.Set(ctx, "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (h *AuthHandler) CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")
	code := c.Query("code")
	if provider == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètres OAuth invalides"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var userEmail, userName, providerID string

	switch provider {
	case "google":
		clientID := os.Getenv("GOOGLE_CLIENT_ID")
		clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
		redirect := baseURL + "/api/auth/google/callback"

		data := url.Values{}
		data.Set("code", code)
		data.Set("client_id", clientID)
		data.Set("client_secret", clientSecret)
		data.Set("redirect_uri", redirect)
		data.Set("grant_type", "authorization_code")

		resp, err := http.PostForm("https://oauth2.googleapis.com/token", data)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur échange token Google"})
			return
		}
		defer resp.Body.Close()
		var tokenResp struct {
			AccessToken string `json:"access_token"`
		}
		json.NewDecoder(resp.Body).Decode(&tokenResp)

		userResp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + tokenResp.AccessToken)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur API Google"})
			return
		}
		defer userResp.Body.Close()
		var gu struct{ ID, Email, Name string }
		json.NewDecoder(userResp.Body).Decode(&gu)
		providerID, userEmail, userName = gu.ID, gu.Email, gu.Name

	case "facebook":
		clientID := os.Getenv("FACEBOOK_CLIENT_ID")
		clientSecret := os.Getenv("FACEBOOK_CLIENT_SECRET")
		redirect := baseURL + "/api/auth/facebook/callback"

		tokenURL := fmt.Sprintf("https://graph.facebook.com/v12.0/oauth/access_token?client_id=%s&redirect_uri=%s&client_secret=%s&code=%s",
			clientID, url.QueryEscape(redirect), clientSecret, code)
		resp, err := http.Get(tokenURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur échange token Facebook"})
			return
		}
		defer resp.Body.Close()
		var tokenResp struct {
			AccessToken string `json:"access_token"`
		}
		json.NewDecoder(resp.Body).Decode(&tokenResp)

		userResp, err := http.Get("https://graph.facebook.com/me?fields=id,name,email&access_token=" + tokenResp.AccessToken)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur API Facebook"})
			return
		}
		defer userResp.Body.Close()
		var fb struct{ ID, Email, Name string }
		json.NewDecoder(userResp.Body).Decode(&fb)
		providerID, userEmail, userName = fb.ID, fb.Email, fb.Name

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	if userEmail == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification OAuth échouée"})
		return
	}

	h.handleOAuthUser(c, provider, providerID, userEmail, userName, state)
}

// ================== UTILITAIRES ==================

func (h *AuthHandler) findOrCreateOAuthUser(ctx context.Context, provider, providerID, email, name string) (models.User, error) {
	u, err := h.users.FindByEmail(ctx, email)
	if err == nil {
		// Compte existant : on rattache le provider
		if u.Provider != provider {
			u.Provider = provider
			u.ProviderID = providerID
			if err := h.users.Update(ctx, u); err != nil {
				log.Printf("⚠️ Erreur fusion provider pour %s: %v", email, err)
			}
			log.Printf("🔄 Compte existant fusionné avec provider %s : %s", provider, email)
		}
		return u, nil
	}
	if err != services.ErrUserNotFound {
		return models.User{}, err
	}

	newUser := models.User{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       name,
		Role:       models.RoleCustomer,
		Provider:   provider,
		ProviderID: providerID,
	}
	if err := h.users.Create(ctx, newUser); err != nil {
		return models.User{}, err
	}
	log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)
	return newUser, nil
}

func (h *AuthHandler) handleOAuthUser(c *gin.Context, provider, providerID, email, name, state string) {
	ctx := context.Background()

	u, err := h.findOrCreateOAuthUser(ctx, provider, providerID, email, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur OAuth"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}
	h.sessions.Open(ctx, u, token)

	redirectURI, _ := database.RedisClient.Get(ctx, "oauth_redirect:"+state).Result()
	_, _ = database.RedisClient.Del(ctx, "oauth_redirect:"+state).Result()

	if redirectURI == "" {
		redirectURI = os.Getenv("FRONTEND_URL")
		if redirectURI == "" {
			redirectURI = "http://localhost:3000"
		}
	}

	allowed := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://lumera.shop",
		"https://www.lumera.shop",
		"lumera://auth/callback",
	}
	valid := false
	for _, o := range allowed {
		if strings.HasPrefix(redirectURI, o) {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Redirect url non autorisé"})
		return
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectURI+sep+"token="+url.QueryEscape(token))
}
