package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// POST /api/categories (admin)
func CreateCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cat.Name == "" || cat.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cat.ID = gocql.TimeUUID()
	now := time.Now()
	cat.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ImageURL, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	database.RedisClient.Del(context.Background(), "categories:all")

	c.JSON(http.StatusCreated, cat)
}

// GET /api/categories
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "categories:all"

	cats := []models.Category{}
	cacheHit := false
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		if json.Unmarshal([]byte(val), &cats) == nil {
			cacheHit = true
		}
	}

	if !cacheHit {
		session, err := database.GetProductsSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}

		iter := session.Query(`SELECT category_id, name, slug, description, image_url, created_at FROM categories`).Iter()

		var cat models.Category
		for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &cat.CreatedAt) {
			cats = append(cats, cat)
			cat = models.Category{}
		}

		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if data, err := json.Marshal(cats); err == nil {
			database.RedisClient.Set(ctx, cacheKey, data, time.Hour)
		}
	}

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := []models.Category{}
		for _, cat := range cats {
			if strings.Contains(strings.ToLower(cat.Name), search) ||
				strings.Contains(strings.ToLower(cat.Slug), search) {
				filtered = append(filtered, cat)
			}
		}
		cats = filtered
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	total := len(cats)
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
		"items": cats[start:end],
		"pagination": models.Pagination{
			Page:       page,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// PUT /api/categories/:id (admin)
func UpdateCategory(c *gin.Context) {
	catUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	if input.Name != nil {
		updates = append(updates, "name = ?")
		values = append(values, *input.Name)
	}
	if input.Slug != nil {
		updates = append(updates, "slug = ?")
		values = append(values, *input.Slug)
	}
	if input.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *input.Description)
	}
	if input.ImageURL != nil {
		updates = append(updates, "image_url = ?")
		values = append(values, *input.ImageURL)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune donnée à mettre à jour"})
		return
	}

	values = append(values, catUUID)

	query := "UPDATE categories SET " + updates[0]
	for i := 1; i < len(updates); i++ {
		query += ", " + updates[i]
	}
	query += " WHERE category_id = ?"

	if err := session.Query(query, values...).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	database.RedisClient.Del(context.Background(), "categories:all")

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour"})
}

// DELETE /api/categories/:id (admin)
func DeleteCategory(c *gin.Context) {
	catUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Refuse la suppression si des produits y sont rattachés
	var productID gocql.UUID
	if err := session.Query(`SELECT product_id FROM products_by_category WHERE category_id = ? LIMIT 1`, catUUID).Scan(&productID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits sont rattachés à cette catégorie"})
		return
	}

	if err := session.Query("DELETE FROM categories WHERE category_id = ?", catUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	database.RedisClient.Del(context.Background(), "categories:all")

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
