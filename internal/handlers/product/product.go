package product

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
)

// POST /api/products (admin)
func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'category_id' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// La catégorie doit exister
	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, p.CategoryID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	query := `INSERT INTO products (product_id, name, description, price, stock, category_id, image_urls, tags, is_active, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
		p.ImageURLs, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// Table de lookup pour les requêtes par catégorie
	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price, stock) VALUES (?, ?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price, p.Stock).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur indexation catégorie"})
		return
	}

	go services.IndexProduct(p)

	// Le listing complet n'est plus à jour
	database.RedisClient.Del(context.Background(), "products:all")

	c.JSON(http.StatusCreated, p)
}

// GET /api/products?page=1&limit=20&search=...
func GetProducts(c *gin.Context) {
	if q := c.Query("search"); q != "" {
		searchProducts(c, q)
		return
	}

	ctx := context.Background()
	cacheKey := "products:all"

	var products []models.Product

	// Cache Redis du listing complet
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		json.Unmarshal([]byte(val), &products)
	}

	if products == nil {
		session, err := database.GetProductsSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}

		iter := session.Query(`SELECT product_id, name, description, price, stock, category_id, image_urls, tags, is_active, created_at, updated_at FROM products`).Iter()

		var p models.Product
		for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
			if p.IsActive {
				products = append(products, p)
			}
			p = models.Product{}
		}

		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
			return
		}

		if data, err := json.Marshal(products); err == nil {
			database.RedisClient.Set(ctx, cacheKey, data, time.Hour)
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total := len(products)
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
		"items": products[start:end],
		"pagination": models.Pagination{
			Page:       page,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// searchProducts interroge Elasticsearch en priorité, avec un
// fallback scan ScyllaDB si l'index est vide
func searchProducts(c *gin.Context, query string) {
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, gin.H{"items": results, "count": len(results)})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ScyllaDB n'a pas de LIKE : scan complet et filtre en mémoire
	iter := session.Query(`SELECT product_id, name, description, price, stock, category_id, image_urls, tags, is_active, created_at, updated_at FROM products`).Iter()

	products := []models.Product{}
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
		&p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive && (containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) || containsTagsIgnoreCase(p.Tags, query)) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": products, "count": len(products)})
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsTagsIgnoreCase(tags []string, query string) bool {
	for _, tag := range tags {
		if containsIgnoreCase(tag, query) {
			return true
		}
	}
	return false
}

// GET /api/products/:id
func GetProductByID(c *gin.Context) {
	p, err := services.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/products/category/:id
func GetProductsByCategory(c *gin.Context) {
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

	iter := session.Query(`SELECT product_id, name, price, stock FROM products_by_category WHERE category_id = ?`, catUUID).Iter()

	products := []models.Product{}
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Price, &p.Stock) {
		p.CategoryID = catUUID
		products = append(products, p)
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GET /api/products/best-sellers
// Calcule les meilleures ventes sur les 30 derniers jours depuis les
// commandes. Le résultat est mis en cache.
func GetBestSellers(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "products:best_sellers"

	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	orders, err := services.ListAllOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	productSales := make(map[string]int)
	for _, o := range orders {
		if o.CreatedAt.Before(thirtyDaysAgo) || o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			productSales[item.ProductID] += item.Quantity
		}
	}

	type productSale struct {
		ProductID string
		Quantity  int
	}
	sales := make([]productSale, 0, len(productSales))
	for pid, qty := range productSales {
		sales = append(sales, productSale{ProductID: pid, Quantity: qty})
	}

	// Tri décroissant par quantité vendue
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].Quantity > sales[j].Quantity
	})

	limit := 10
	if len(sales) > limit {
		sales = sales[:limit]
	}

	products := []models.Product{}
	for _, sale := range sales {
		if p, err := services.GetProductByID(ctx, sale.ProductID); err == nil {
			products = append(products, p)
		}
	}

	if data, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, cacheKey, data, 15*time.Minute)
	}

	c.JSON(http.StatusOK, products)
}
