package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"lumera_back_end/internal/cache"
	"lumera_back_end/internal/database"
	"lumera_back_end/internal/listview"
	"lumera_back_end/internal/models"
)

// usersView est la vue tabulaire de l'écran admin utilisateurs
var usersView = listview.View[models.User]{
	Mode: listview.ClientSide,
	Key:  func(u models.User) string { return u.ID },
	Columns: []listview.Column[models.User]{
		{Key: "email", Header: "Email", Value: func(u models.User) any { return u.Email }, Sortable: true},
		{Key: "name", Header: "Nom", Value: func(u models.User) any { return u.Name }, Sortable: true},
		{Key: "role", Header: "Rôle", Value: func(u models.User) any { return u.Role }, Sortable: true,
			FilterOptions: []string{models.RoleCustomer, models.RoleAdmin}},
		{Key: "provider", Header: "Provider", Value: func(u models.User) any { return u.Provider },
			FilterOptions: []string{"local", "google", "facebook"}},
		{Key: "created_at", Header: "Inscrit le", Value: func(u models.User) any {
			if u.CreatedAt == nil {
				return nil
			}
			return *u.CreatedAt
		}, Sortable: true},
	},
}

// GET /api/admin/users
func ListUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, role, provider, created_at FROM users`).Iter()

	var users []models.User
	var (
		userID    gocql.UUID
		u         models.User
		createdAt time.Time
	)
	for iter.Scan(&userID, &u.Email, &u.Name, &u.Role, &u.Provider, &createdAt) {
		u.ID = userID.String()
		ca := createdAt
		u.CreatedAt = &ca
		users = append(users, u)
		u = models.User{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur récupération utilisateurs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	result := usersView.Render(users, listview.ParamsFromQuery(c), len(users))
	c.JSON(http.StatusOK, result)
}

// PUT /api/admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.Role != models.RoleCustomer && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
		return
	}

	userUUID, err := gocql.ParseUUID(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ?, updated_at = ? WHERE user_id = ?`,
		req.Role, time.Now(), userUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour rôle"})
		return
	}

	cache.InvalidateUserCache(userID)

	log.Printf("👤 Rôle de %s changé en %s", userID, req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "role": req.Role})
}
